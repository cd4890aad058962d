package models

import "bitbucket.org/mmdatafocus/busops_backend/store"

// Bus is the operating unit a remittance decision is keyed on.
type Bus struct {
	ID          string `json:"id"`
	BusNumber   string `json:"busNumber"`
	ConductorID string `json:"conductorId"`
	Active      bool   `json:"active"`
}

func BusFromDocument(doc store.RawDocument) Bus {
	return Bus{
		ID:          doc.ID,
		BusNumber:   doc.Field("busNumber"),
		ConductorID: doc.Field("conductorId"),
		Active:      doc.Field("active") != "false",
	}
}
