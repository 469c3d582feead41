package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pref-sync/models"
)

func TestDocumentValidator(t *testing.T) {
	validator, err := NewDocumentValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		kind    models.Kind
		record  models.Record
		wantErr bool
	}{
		{name: "empty preferences", kind: models.KindPreferences, record: models.Record{}},
		{
			name:   "mixed preference values",
			kind:   models.KindPreferences,
			record: models.Record{"theme": "dark", "fontSize": 1.15, "compact": true},
		},
		{
			name:   "credential values are strings",
			kind:   models.KindCredentials,
			record: models.Record{"cred-1": `{"id":"cred-1"}`},
		},
		{
			name:    "credential value of wrong type",
			kind:    models.KindCredentials,
			record:  models.Record{"cred-1": 42.0},
			wantErr: true,
		},
		{
			name:    "empty field name",
			kind:    models.KindPreferences,
			record:  models.Record{"": "oops"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			kind:    models.Kind("bookmarks"),
			record:  models.Record{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.kind, tt.record)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDocument)
				return
			}
			assert.NoError(t, err)
		})
	}
}
