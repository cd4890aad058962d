// seed-demo creates the admin console user plus a small demo fleet with a
// few days of trips, so a fresh deployment has data on the dashboard.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	COLLECTION_TRIPS=trips COLLECTION_REMITTANCES=remittances \
//	COLLECTION_BUSES=buses COLLECTION_USERS=users go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/busops_backend/config"
	"bitbucket.org/mmdatafocus/busops_backend/store"
	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

const (
	adminUsername = "busopsAdmin"
	adminPassword = "Bus0ps@dmin"
	adminName     = "BusOps Admin"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	cols, err := config.Collections()
	if err != nil {
		fmt.Fprintf(os.Stderr, "collection config: %v\n", err)
		os.Exit(1)
	}

	rs := store.NewMySQLStore(db)
	if err := rs.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	if _, err := rs.Create(ctx, cols.Users, "", map[string]string{
		"username":     adminUsername,
		"name":         adminName,
		"role":         "admin",
		"passwordHash": string(hashed),
		"active":       "true",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "seed admin: %v\n", err)
		os.Exit(1)
	}

	conductors := []struct{ id, name string }{}
	for i := 1; i <= 3; i++ {
		doc, err := rs.Create(ctx, cols.Users, "", map[string]string{
			"username":     fmt.Sprintf("conductor%d", i),
			"name":         fmt.Sprintf("Demo Conductor %d", i),
			"role":         "conductor",
			"passwordHash": string(hashed),
			"active":       "true",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed conductor: %v\n", err)
			os.Exit(1)
		}
		conductors = append(conductors, struct{ id, name string }{doc.ID, fmt.Sprintf("Demo Conductor %d", i)})
	}

	routes := [][2]string{
		{"Cubao", "Baguio"},
		{"Pasay", "Batangas"},
		{"Manila", "Olongapo"},
	}
	now := time.Now().UTC()
	for i, conductor := range conductors {
		busNumber := fmt.Sprintf("BUS-%03d", i+1)
		busDoc, err := rs.Create(ctx, cols.Buses, "", map[string]string{
			"busNumber":   busNumber,
			"conductorId": conductor.id,
			"active":      "true",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed bus: %v\n", err)
			os.Exit(1)
		}

		for day := 0; day < 7; day++ {
			for trip := 0; trip < 4; trip++ {
				ts := now.AddDate(0, 0, -day).Add(-time.Duration(trip) * time.Hour)
				method := "CASH"
				if trip%2 == 0 {
					method = "QR"
				}
				fare := 100 + 25*trip
				route := routes[i%len(routes)]
				if _, err := rs.Create(ctx, cols.Trips, "", map[string]string{
					"timestamp":     strconv.FormatInt(ts.UnixMilli(), 10),
					"fare":          fmt.Sprintf("₱%d.00", fare),
					"paymentMethod": method,
					"from":          route[0],
					"to":            route[1],
					"busNumber":     busNumber,
					"conductorId":   conductor.id,
					"passengerName": fmt.Sprintf("Passenger %d-%d", day, trip),
					"transactionId": fmt.Sprintf("TXN-%s-%d-%d", busNumber, day, trip),
				}); err != nil {
					fmt.Fprintf(os.Stderr, "seed trip: %v\n", err)
					os.Exit(1)
				}
			}
		}
		fmt.Printf("seeded %s (%s) with 28 trips\n", busNumber, busDoc.ID)
	}

	fmt.Printf("done. admin login: %s / %s\n", adminUsername, adminPassword)
}
