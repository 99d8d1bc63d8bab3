package services

import (
	portsrepo "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks-app/bizbooks_backend/internal/core/ports/services"
)

// NewServiceContainer wires all application services from the repositories.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc, repos.ReconciliationRepo)
	reconciliationSvc := NewReconciliationService(repos.JournalRepo, repos.ReconciliationRepo, accountSvc, journalSvc)
	reportingSvc := NewReportingService(repos.ReportingRepo)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Journal:        journalSvc,
		Reconciliation: reconciliationSvc,
		Reporting:      reportingSvc,
	}
}
