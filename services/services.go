package services

import (
	"github.com/blogem/windows-live-authenticator/repositories"
)

// Services holds all service instances
type Services struct {
	Audit AuditService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories) *Services {
	return &Services{
		Audit: NewAuditService(repos.Events),
	}
}
