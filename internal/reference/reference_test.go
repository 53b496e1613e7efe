package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()

	assert.Equal(t, 52, d.Len())

	ticker, err := d.Ticker("Exxon Mobil")
	require.NoError(t, err)
	assert.Equal(t, "XOM", ticker)

	names := d.Names()
	assert.Equal(t, "Energy Transfer LP", names[0])
	assert.Equal(t, "Keyera Corp", names[len(names)-1])
}

func TestDirectory_UnknownCompany(t *testing.T) {
	d := Default()

	_, err := d.Ticker("Acme Oil")
	assert.ErrorIs(t, err, ErrUnknownCompany)
	assert.Contains(t, err.Error(), "Acme Oil")
}

func TestNewDirectory(t *testing.T) {
	tests := []struct {
		name      string
		companies []Company
		wantErr   bool
	}{
		{"valid", []Company{{"A", "AAA"}, {"B", "BBB"}}, false},
		{"duplicate name", []Company{{"A", "AAA"}, {"A", "BBB"}}, true},
		{"missing ticker", []Company{{"A", ""}}, true},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDirectory(tt.companies)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.companies), d.Len())
		})
	}
}

func TestDirectory_CompaniesIsCopy(t *testing.T) {
	d, err := NewDirectory([]Company{{"A", "AAA"}})
	require.NoError(t, err)

	c := d.Companies()
	c[0].Ticker = "ZZZ"

	ticker, err := d.Ticker("A")
	require.NoError(t, err)
	assert.Equal(t, "AAA", ticker)
	assert.Equal(t, "AAA", d.Companies()[0].Ticker)
}
