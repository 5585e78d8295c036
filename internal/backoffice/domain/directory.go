package domain

import "time"

// Depot is a physical base of operations within an organization.
type Depot struct {
	ID        string
	OrgID     string
	Name      string
	Postcode  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Crew is a named team, optionally based at a depot.
type Crew struct {
	ID        string
	OrgID     string
	Name      string
	DepotID   string // optional
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee is a worker, optionally assigned to a crew.
type Employee struct {
	ID        string
	OrgID     string
	Name      string
	Email     string
	CrewID    string // optional
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Vehicle belongs to an organization, optionally parked at a depot.
type Vehicle struct {
	ID           string
	OrgID        string
	Registration string
	Kind         string // e.g. "van", "truck"
	DepotID      string // optional
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
