package storage

import (
	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/repositories/appointments"
	"github.com/arturpetrov/clinicore/internal/repositories/audit"
	"github.com/arturpetrov/clinicore/internal/repositories/messages"
	"github.com/arturpetrov/clinicore/internal/repositories/operators"
	"github.com/arturpetrov/clinicore/internal/repositories/patients"
	"github.com/arturpetrov/clinicore/internal/repositories/products"
	"github.com/arturpetrov/clinicore/internal/repositories/settings"
	"github.com/arturpetrov/clinicore/internal/repositories/transactions"
)

// RepositoryManager vends repository implementations bound to a DBTX, so a
// service can rebind the same repository to a transaction handle inside a
// unit of work.
type RepositoryManager interface {
	Operators(db dbx.DBTX) operators.Repository
	Patients(db dbx.DBTX) patients.Repository
	Appointments(db dbx.DBTX) appointments.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Products(db dbx.DBTX) products.Repository
	Messages(db dbx.DBTX) messages.Repository
	Settings(db dbx.DBTX) settings.Repository
	Audit(db dbx.DBTX) audit.Repository
}

// SQLiteRepositoryManager vends SQLite-backed repository implementations.
type SQLiteRepositoryManager struct{}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Operators(db dbx.DBTX) operators.Repository {
	return operators.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Patients(db dbx.DBTX) patients.Repository {
	return patients.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Appointments(db dbx.DBTX) appointments.Repository {
	return appointments.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Products(db dbx.DBTX) products.Repository {
	return products.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Audit(db dbx.DBTX) audit.Repository {
	return audit.NewSQLiteRepository(db)
}
