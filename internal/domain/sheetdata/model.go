package sheetdata

// Status is the normalized workflow state of a client project.
type Status string

const (
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "In Progress"
	StatusPending    Status = "Pending"
	StatusCancelled  Status = "Cancelled"
)

// ClientRecord is one client row from the sheet export.
type ClientRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Headshots int    `json:"headshots"`
	Price     int    `json:"price"`
	Status    Status `json:"status"`
}

// DashboardStats aggregates a set of client records.
type DashboardStats struct {
	TotalClients      int `json:"total_clients"`
	TotalHeadshots    int `json:"total_headshots"`
	TotalRevenue      int `json:"total_revenue"`
	CompletedProjects int `json:"completed_projects"`
	PendingEmails     int `json:"pending_emails"`
}

// RevenuePoint is one bar of the placeholder revenue chart.
type RevenuePoint struct {
	Month   string `json:"month"`
	Revenue int    `json:"revenue"`
	Clients int    `json:"clients"`
}
