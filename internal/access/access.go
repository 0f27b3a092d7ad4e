// Package access решает, может ли субъект выполнить действие над ресурсом.
// Решение не зависит от хранилища: usecase передаёт владельца записи, если он есть.
package access

import "github.com/DRSN-tech/calories-backend/pkg/e"

type Resource int

const (
	Category Resource = iota
	Product
	EatenProduct
	DailyTotal
)

func (r Resource) String() string {
	switch r {
	case Category:
		return "category"
	case Product:
		return "product"
	case EatenProduct:
		return "eaten_product"
	case DailyTotal:
		return "daily_total"
	default:
		return "unknown"
	}
}

type Action int

const (
	Read Action = iota
	Write
)

// Subject — аутентифицированный пользователь. nil означает анонимный запрос.
type Subject struct {
	UserID int64
	Admin  bool
}

type Request struct {
	Resource Resource
	Action   Action
	Subject  *Subject
	OwnerID  *int64 // владелец конкретной записи; nil для коллекции или новой записи
}

type Decision int

const (
	Allow Decision = iota
	DenyUnauthorized
	DenyForbidden
	DenyNotFound
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthorized:
		return "unauthorized"
	case DenyForbidden:
		return "forbidden"
	case DenyNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Err переводит решение в доменную ошибку. Для Allow возвращает nil.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyUnauthorized:
		return e.ErrUnauthorized
	case DenyForbidden:
		return e.ErrForbidden
	case DenyNotFound:
		return e.ErrNotFound
	default:
		return e.ErrForbidden
	}
}

// Decide применяет правила доступа:
//   - Category: только администратор, и на чтение, и на запись;
//   - Product: читать могут все, писать только администратор;
//   - EatenProduct, DailyTotal: только свои записи, администратор не исключение.
//
// Чужая запись журнала выдаётся как отсутствующая, чтобы не раскрывать её существование.
func Decide(req Request) Decision {
	switch req.Resource {
	case Category:
		return adminOnly(req.Subject)
	case Product:
		if req.Action == Read {
			return Allow
		}
		return adminOnly(req.Subject)
	case EatenProduct, DailyTotal:
		if req.Subject == nil {
			return DenyUnauthorized
		}
		if req.OwnerID != nil && *req.OwnerID != req.Subject.UserID {
			return DenyNotFound
		}
		return Allow
	default:
		return DenyForbidden
	}
}

// Check возвращает Decide(req).Err().
func Check(req Request) error {
	return Decide(req).Err()
}

func adminOnly(s *Subject) Decision {
	switch {
	case s == nil:
		return DenyUnauthorized
	case !s.Admin:
		return DenyForbidden
	default:
		return Allow
	}
}
