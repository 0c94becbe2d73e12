package repository

import "github.com/alexanderramin/strata/internal/db"

// Repos bundles every repository bound to the same DBTX, typically the
// transaction handed out by UnitOfWork.WithinTx.
type Repos struct {
	Projects  ProjectRepo
	Modules   ModuleRepo
	UseCases  UseCaseRepo
	Tasks     TaskRepo
	Relations TaskRelationRepo
	Members   MemberRepo
	Events    EventOutbox
}

func NewSQLiteRepos(tx db.DBTX) *Repos {
	return &Repos{
		Projects:  NewSQLiteProjectRepo(tx),
		Modules:   NewSQLiteModuleRepo(tx),
		UseCases:  NewSQLiteUseCaseRepo(tx),
		Tasks:     NewSQLiteTaskRepo(tx),
		Relations: NewSQLiteTaskRelationRepo(tx),
		Members:   NewSQLiteMemberRepo(tx),
		Events:    NewSQLiteEventOutbox(tx),
	}
}
