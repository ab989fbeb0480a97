package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolationID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr string
	}{
		{name: "valid upper", raw: "ABC12345", want: "ABC12345"},
		{name: "normalized to upper", raw: "abc12345", want: "ABC12345"},
		{name: "trimmed", raw: "  TRF2024XYZ  ", want: "TRF2024XYZ"},
		{name: "max length", raw: strings.Repeat("A", 20), want: strings.Repeat("A", 20)},
		{name: "empty", raw: "", wantErr: "Violation ID is required"},
		{name: "too short", raw: "ABC1234", wantErr: "Violation ID must be 8-20 alphanumeric characters"},
		{name: "too long", raw: strings.Repeat("A", 21), wantErr: "Violation ID must be 8-20 alphanumeric characters"},
		{name: "special chars", raw: "ABC-12345", wantErr: "Violation ID must be 8-20 alphanumeric characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ViolationID(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescription(t *testing.T) {
	valid := "The road was completely blocked by a fallen tree and traffic was diverted through the side streets."

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "valid", raw: valid},
		{name: "empty", raw: "", wantErr: "Description is required"},
		{name: "forty characters rejected", raw: strings.Repeat("a", 40), wantErr: "Description must be at least 50 characters"},
		{name: "too long", raw: strings.Repeat("a", 2001), wantErr: "Description cannot exceed 2000 characters"},
		{name: "not enough words", raw: strings.Repeat("a", 30) + " " + strings.Repeat("b", 30), wantErr: "Description must contain at least 5 words"},
		{name: "angle brackets stripped shorten input", raw: "<b>" + strings.Repeat("x", 45) + "</b>", wantErr: "Description must be at least 50 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Description(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, valid, got)
		})
	}
}

// Length limits count characters, not bytes: a multi-byte description under
// fifty characters must not slip through on byte length alone.
func TestDescriptionCountsCharactersNotBytes(t *testing.T) {
	short := strings.TrimSpace(strings.Repeat("päärynä ", 5)) // 39 characters, 54 bytes
	_, err := Description(short)
	require.Error(t, err)
	assert.Equal(t, "Description must be at least 50 characters", err.Error())

	long := strings.TrimSpace(strings.Repeat("päärynä ", 8)) // 63 characters
	got, err := Description(long)
	require.NoError(t, err)
	assert.Equal(t, long, got)

	over := strings.TrimSpace(strings.Repeat("ää ", 700)) // 2099 characters
	_, err = Description(over)
	require.Error(t, err)
	assert.Equal(t, "Description cannot exceed 2000 characters", err.Error())
}

// Rejection is a pure function of the input: the same bad value yields the
// identical error every time.
func TestRejectionIdempotent(t *testing.T) {
	_, first := Description(strings.Repeat("a", 40))
	_, second := Description(strings.Repeat("a", 40))
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())

	_, first = ViolationID("nope")
	_, second = ViolationID("nope")
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())
}

func TestEmail(t *testing.T) {
	got, err := Email("  Citizen@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "citizen@example.com", got)

	_, err = Email("not-an-email")
	assert.EqualError(t, err, "Invalid email format")

	_, err = Email("")
	assert.EqualError(t, err, "Email is required")
}

func TestNIC(t *testing.T) {
	tests := []struct {
		raw   string
		want  string
		valid bool
	}{
		{raw: "123456789v", want: "123456789V", valid: true},
		{raw: "200012345678", want: "200012345678", valid: true},
		{raw: "12345678", valid: false},
		{raw: "123456789Z", valid: false},
	}
	for _, tt := range tests {
		got, err := NIC(tt.raw)
		if tt.valid {
			require.NoError(t, err, tt.raw)
			assert.Equal(t, tt.want, got)
		} else {
			assert.Error(t, err, tt.raw)
		}
	}
}

func TestDrivingLicense(t *testing.T) {
	got, err := DrivingLicense("b1234567")
	require.NoError(t, err)
	assert.Equal(t, "B1234567", got)

	got, err = DrivingLicense("123456789")
	require.NoError(t, err)
	assert.Equal(t, "123456789", got)

	_, err = DrivingLicense("BB123456")
	assert.Error(t, err)
}

func TestMobileNumber(t *testing.T) {
	got, err := MobileNumber("0712345678")
	require.NoError(t, err)
	assert.Equal(t, "0712345678", got)

	got, err = MobileNumber("+94712345678")
	require.NoError(t, err)
	assert.Equal(t, "+94712345678", got)

	_, err = MobileNumber("0812345678")
	assert.Error(t, err)
}
