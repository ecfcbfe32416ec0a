package permissions

import (
	"github.com/sirupsen/logrus"

	"group-verify-bot/internal/models"
)

// AccessType represents the access level of a user
type AccessType int

const (
	// Guest represents a user with no registry decision
	Guest AccessType = iota
	// Admin represents the admin authority
	Admin
	// Verified represents a user allowed to post freely
	Verified
	// Pending represents a user waiting for a decision
	Pending
	// Blocked represents a rejected user
	Blocked
)

// String returns the access type name used in logs
func (a AccessType) String() string {
	switch a {
	case Admin:
		return "admin"
	case Verified:
		return "verified"
	case Pending:
		return "pending"
	case Blocked:
		return "blocked"
	default:
		return "guest"
	}
}

// StatusSource reports a user's registry status
type StatusSource interface {
	Status(userID int64) models.Status
}

// PermissionController classifies senders. The admin is recognized by
// identity and never looked up in the registry.
type PermissionController struct {
	adminID int64
	status  StatusSource
	logger  *logrus.Logger
}

// NewController creates a new permission controller
func NewController(adminID int64, status StatusSource, logger *logrus.Logger) *PermissionController {
	logger.Infof("Initialized permission controller with admin %d", adminID)

	return &PermissionController{
		adminID: adminID,
		status:  status,
		logger:  logger,
	}
}

// GetAccessType determines the access type of a user
func (p *PermissionController) GetAccessType(userID int64) AccessType {
	if p.IsAdmin(userID) {
		return Admin
	}

	switch p.status.Status(userID) {
	case models.StatusVerified:
		return Verified
	case models.StatusPending:
		return Pending
	case models.StatusBlocked:
		return Blocked
	default:
		return Guest
	}
}

// IsAdmin checks if a user is the admin
func (p *PermissionController) IsAdmin(userID int64) bool {
	isAdmin := userID == p.adminID
	p.logger.Debugf("Checking if user %d is admin: %v", userID, isAdmin)
	return isAdmin
}
