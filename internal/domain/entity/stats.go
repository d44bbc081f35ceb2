package entity

// SystemStats is a derived read-model summarizing the state tree. It is
// recomputed on demand and never persisted.
type SystemStats struct {
	TotalUsers         int     `json:"total_users"`          // Number of known users.
	PendingUsers       int     `json:"pending_users"`        // Registrations awaiting review.
	TotalWholesalers   int     `json:"total_wholesalers"`    // Users with the wholesaler role.
	TotalRetailers     int     `json:"total_retailers"`      // Users with the retailer role.
	TotalProducts      int     `json:"total_products"`       // Catalog entries across all wholesalers.
	TotalOrders        int     `json:"total_orders"`         // Orders ever placed.
	CompletedOrders    int     `json:"completed_orders"`     // Orders fulfilled to completion.
	TotalRevenue       float64 `json:"total_revenue"`        // Sum of paid order totals.
	OpenTickets        int     `json:"open_tickets"`         // Support tickets not yet resolved or closed.
	PendingPromotions  int     `json:"pending_promotions"`   // Promotions awaiting moderation.
	OpenReturnRequests int     `json:"open_return_requests"` // Return requests still pending or processing.
}
