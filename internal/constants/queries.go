package constants

// Dashboard aggregates. Placeholders use '?' and are rebound per driver.
const (
	CountMembers = `SELECT COUNT(*) FROM profiles`

	CountActiveMembers = `SELECT COUNT(*) FROM profiles WHERE status = ?`

	CountUpcomingActivities = `
		SELECT COUNT(*) FROM activities
		WHERE activity_date >= ? AND status = ?`

	CountPendingLeaves = `SELECT COUNT(*) FROM leave_requests WHERE status = ?`

	CountLowStockResources = `SELECT COUNT(*) FROM resources WHERE available_quantity < ?`

	AttendanceTotals = `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS present
		FROM attendance`

	HealthPing = `SELECT 1`
)
