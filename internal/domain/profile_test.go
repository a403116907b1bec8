package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel_picker/internal/domain"
)

func TestUserProfile_Defaults(t *testing.T) {
	var p domain.UserProfile
	assert.Equal(t, 30.0, p.TargetPrice())
	assert.Equal(t, 50.0, p.NoisePref())
	assert.Equal(t, 25.0, p.UserAge())
}

func TestUserProfile_TolerantNumbers(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want domain.OptFloat
	}{
		{"number", `{"maxPrice": 42.5}`, domain.Float(42.5)},
		{"numeric string", `{"maxPrice": " 18 "}`, domain.Float(18)},
		{"zero is set", `{"maxPrice": 0}`, domain.Float(0)},
		{"null", `{"maxPrice": null}`, domain.OptFloat{}},
		{"junk string", `{"maxPrice": "cheap"}`, domain.OptFloat{}},
		{"nan string", `{"maxPrice": "NaN"}`, domain.OptFloat{}},
		{"bool", `{"maxPrice": true}`, domain.OptFloat{}},
		{"object", `{"maxPrice": {"v": 1}}`, domain.OptFloat{}},
		{"absent", `{}`, domain.OptFloat{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p domain.UserProfile
			require.NoError(t, json.Unmarshal([]byte(tc.in), &p))
			assert.Equal(t, tc.want, p.MaxPrice)
		})
	}
}

func TestUserProfile_MarshalUnsetAsNull(t *testing.T) {
	b, err := json.Marshal(domain.UserProfile{Destination: "Lima", Age: domain.Float(31)})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Nil(t, got["maxPrice"])
	assert.Equal(t, 31.0, got["age"])
	assert.Equal(t, "Lima", got["destination"])
}
