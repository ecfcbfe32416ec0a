package registry

import (
	"sort"

	"group-verify-bot/internal/models"
)

// sortRecords orders records by submission time, then by user id
func sortRecords(records []models.VerificationRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].SubmittedAt.Equal(records[j].SubmittedAt) {
			return records[i].UserID < records[j].UserID
		}
		return records[i].SubmittedAt.Before(records[j].SubmittedAt)
	})
}
