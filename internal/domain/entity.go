package domain

import "context"

// Entity é qualquer registro persistido. O ID é atribuído pelo banco na
// inserção e não muda depois disso.
type Entity interface {
	GetID() int64
}

// Predicate é um teste booleano sobre uma entidade, usado por Repository.Filter.
type Predicate[T Entity] func(T) bool

// Repository é o contrato genérico de persistência usado por todas as entidades.
// A camada de serviço nunca acessa o banco diretamente.
//
// Mutações (Add, Update, Delete) ficam pendentes na sessão que criou o
// repositório e só se tornam duráveis no Commit da sessão.
type Repository[T Entity] interface {
	// GetByID retorna (entidade, true, nil) ou (zero, false, nil) quando não existe.
	GetByID(ctx context.Context, id int64) (T, bool, error)
	GetAll(ctx context.Context) ([]T, error)
	// Filter retorna as entidades que satisfazem pred; pred nil equivale a GetAll.
	Filter(ctx context.Context, pred Predicate[T]) ([]T, error)
	// Add insere a entidade e preenche o ID atribuído pelo banco.
	Add(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, entity T) error
}

// UserLookup especializa Repository para User com busca exata por nome.
// Nomes são únicos (constraint UNIQUE), então a busca retorna no máximo um usuário.
type UserLookup interface {
	Repository[*User]
	FindByName(ctx context.Context, name string) (*User, bool, error)
}

// InvoiceRepository especializa Repository para Invoice com o filtro por
// consulta executado no banco.
type InvoiceRepository interface {
	Repository[*Invoice]
	FindByAppointment(ctx context.Context, appID int64) ([]*Invoice, error)
}
