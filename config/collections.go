package config

import (
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/busops_backend/utils"
)

// CollectionConfig carries the identifiers of the record-store collections.
// Nothing here may default silently: a missing identifier is a configuration
// error, never an empty result set.
type CollectionConfig struct {
	Trips       string
	Remittances string
	Buses       string
	Users       string
}

// Collections resolves every collection identifier or fails with
// ErrCollectionNotConfigured wrapped with the offending variable name.
func Collections() (CollectionConfig, error) {
	cols := CollectionConfig{}
	for _, it := range []struct {
		env  string
		dest *string
	}{
		{"COLLECTION_TRIPS", &cols.Trips},
		{"COLLECTION_REMITTANCES", &cols.Remittances},
		{"COLLECTION_BUSES", &cols.Buses},
		{"COLLECTION_USERS", &cols.Users},
	} {
		v := os.Getenv(it.env)
		if v == "" {
			return CollectionConfig{}, fmt.Errorf("%s: %w", it.env, utils.ErrCollectionNotConfigured)
		}
		*it.dest = v
	}
	return cols, nil
}
