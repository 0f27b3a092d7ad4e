package access

import (
	"testing"

	"github.com/DRSN-tech/calories-backend/pkg/e"
	"github.com/stretchr/testify/assert"
)

func owner(id int64) *int64 { return &id }

func TestDecide(t *testing.T) {
	var (
		anon   *Subject
		author = &Subject{UserID: 1}
		reader = &Subject{UserID: 2}
		admin  = &Subject{UserID: 3, Admin: true}
	)

	tests := []struct {
		name string
		req  Request
		want Decision
	}{
		{"category read anonymous", Request{Resource: Category, Action: Read, Subject: anon}, DenyUnauthorized},
		{"category write anonymous", Request{Resource: Category, Action: Write, Subject: anon}, DenyUnauthorized},
		{"category read user", Request{Resource: Category, Action: Read, Subject: author}, DenyForbidden},
		{"category write user", Request{Resource: Category, Action: Write, Subject: author}, DenyForbidden},
		{"category read admin", Request{Resource: Category, Action: Read, Subject: admin}, Allow},
		{"category write admin", Request{Resource: Category, Action: Write, Subject: admin}, Allow},

		{"product read anonymous", Request{Resource: Product, Action: Read, Subject: anon}, Allow},
		{"product read user", Request{Resource: Product, Action: Read, Subject: author}, Allow},
		{"product write anonymous", Request{Resource: Product, Action: Write, Subject: anon}, DenyUnauthorized},
		{"product write user", Request{Resource: Product, Action: Write, Subject: author}, DenyForbidden},
		{"product write admin", Request{Resource: Product, Action: Write, Subject: admin}, Allow},

		{"eaten list anonymous", Request{Resource: EatenProduct, Action: Read, Subject: anon}, DenyUnauthorized},
		{"eaten create anonymous", Request{Resource: EatenProduct, Action: Write, Subject: anon}, DenyUnauthorized},
		{"eaten list author", Request{Resource: EatenProduct, Action: Read, Subject: author}, Allow},
		{"eaten create author", Request{Resource: EatenProduct, Action: Write, Subject: author}, Allow},
		{"eaten read own", Request{Resource: EatenProduct, Action: Read, Subject: author, OwnerID: owner(1)}, Allow},
		{"eaten write own", Request{Resource: EatenProduct, Action: Write, Subject: author, OwnerID: owner(1)}, Allow},
		{"eaten read other's", Request{Resource: EatenProduct, Action: Read, Subject: reader, OwnerID: owner(1)}, DenyNotFound},
		{"eaten write other's", Request{Resource: EatenProduct, Action: Write, Subject: reader, OwnerID: owner(1)}, DenyNotFound},
		{"eaten admin has no override", Request{Resource: EatenProduct, Action: Read, Subject: admin, OwnerID: owner(1)}, DenyNotFound},
		{"eaten read anonymous with owner", Request{Resource: EatenProduct, Action: Read, Subject: anon, OwnerID: owner(1)}, DenyUnauthorized},

		{"daily total anonymous", Request{Resource: DailyTotal, Action: Read, Subject: anon}, DenyUnauthorized},
		{"daily total user", Request{Resource: DailyTotal, Action: Read, Subject: author}, Allow},
		{"daily total admin", Request{Resource: DailyTotal, Action: Read, Subject: admin}, Allow},

		{"unknown resource", Request{Resource: Resource(42), Action: Read, Subject: admin}, DenyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.req))
		})
	}
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, Allow.Err())
	assert.ErrorIs(t, DenyUnauthorized.Err(), e.ErrUnauthorized)
	assert.ErrorIs(t, DenyForbidden.Err(), e.ErrForbidden)
	assert.ErrorIs(t, DenyNotFound.Err(), e.ErrNotFound)
}

func TestCheck_ForeignRecordIsNotFoundNotForbidden(t *testing.T) {
	err := Check(Request{Resource: EatenProduct, Action: Write, Subject: &Subject{UserID: 2}, OwnerID: owner(1)})

	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.NotErrorIs(t, err, e.ErrForbidden)
}
