package domain

import "time"

type DashboardStats struct {
	TotalBookings int64
	ActiveTrains  int64
	TotalRevenue  int64
}

type RevenuePoint struct {
	Date    time.Time
	Revenue int64
}
