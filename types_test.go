package docstudio

import (
	"errors"
	"math"
	"testing"
)

func TestConvertMargins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Margins
		unit    string
		want    Margins
		wantErr error
	}{
		{
			name: "mm to cm",
			in:   Margins{Top: 20, Right: 20, Bottom: 20, Left: 20, Unit: UnitMillimetre},
			unit: UnitCentimetre,
			want: Margins{Top: 2, Right: 2, Bottom: 2, Left: 2, Unit: UnitCentimetre},
		},
		{
			name: "in to mm clamps to 50",
			in:   Margins{Top: 1, Right: 3, Bottom: 0, Left: 0.5, Unit: UnitInch},
			unit: UnitMillimetre,
			want: Margins{Top: 25.4, Right: 50, Bottom: 0, Left: 12.7, Unit: UnitMillimetre},
		},
		{
			name: "same unit",
			in:   Margins{Top: 1, Right: 2, Bottom: 3, Left: 4, Unit: UnitCentimetre},
			unit: UnitCentimetre,
			want: Margins{Top: 1, Right: 2, Bottom: 3, Left: 4, Unit: UnitCentimetre},
		},
		{
			name:    "unknown target",
			in:      Margins{Unit: UnitMillimetre},
			unit:    "pt",
			wantErr: ErrInvalidUnit,
		},
		{
			name:    "unknown source",
			in:      Margins{Unit: "px"},
			unit:    UnitMillimetre,
			wantErr: ErrInvalidUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ConvertMargins(tt.in, tt.unit)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ConvertMargins() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Unit != tt.want.Unit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.want.Unit)
			}
			for _, pair := range [][2]float64{
				{got.Top, tt.want.Top},
				{got.Right, tt.want.Right},
				{got.Bottom, tt.want.Bottom},
				{got.Left, tt.want.Left},
			} {
				if math.Abs(pair[0]-pair[1]) > 1e-9 {
					t.Errorf("ConvertMargins() = %+v, want %+v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestNormalizeMargins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Margins
		want    Margins
		wantErr error
	}{
		{
			name: "inches beyond the mm bound are not clamped",
			in:   Margins{Top: 3, Right: 1, Bottom: 3, Left: 1, Unit: UnitInch},
			want: Margins{Top: 76.2, Right: 25.4, Bottom: 76.2, Left: 25.4, Unit: UnitMillimetre},
		},
		{
			name: "centimetre maximum",
			in:   Margins{Top: 5, Right: 5, Bottom: 5, Left: 5, Unit: UnitCentimetre},
			want: Margins{Top: 50, Right: 50, Bottom: 50, Left: 50, Unit: UnitMillimetre},
		},
		{
			name: "millimetres unchanged",
			in:   Margins{Top: 20, Right: 10, Bottom: 20, Left: 10, Unit: UnitMillimetre},
			want: Margins{Top: 20, Right: 10, Bottom: 20, Left: 10, Unit: UnitMillimetre},
		},
		{
			name:    "above the unit bound",
			in:      Margins{Top: 6, Unit: UnitInch},
			wantErr: ErrInvalidMargin,
		},
		{
			name:    "unknown unit",
			in:      Margins{Unit: "pt"},
			wantErr: ErrInvalidUnit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeMargins(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NormalizeMargins() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Unit != tt.want.Unit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.want.Unit)
			}
			for _, pair := range [][2]float64{
				{got.Top, tt.want.Top},
				{got.Right, tt.want.Right},
				{got.Bottom, tt.want.Bottom},
				{got.Left, tt.want.Left},
			} {
				if math.Abs(pair[0]-pair[1]) > 1e-9 {
					t.Errorf("NormalizeMargins() = %+v, want %+v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestValidateMargins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Margins
		wantErr error
	}{
		{"zero", Margins{Unit: UnitMillimetre}, nil},
		{"at bound", Margins{Top: 50, Right: 50, Bottom: 50, Left: 50, Unit: UnitMillimetre}, nil},
		{"negative", Margins{Top: -1, Unit: UnitMillimetre}, ErrInvalidMargin},
		{"NaN", Margins{Left: math.NaN(), Unit: UnitMillimetre}, ErrInvalidMargin},
		{"infinite", Margins{Right: math.Inf(1), Unit: UnitCentimetre}, ErrInvalidMargin},
		{"empty unit", Margins{Top: 1}, ErrInvalidUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateMargins(tt.in); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMargins(%+v) = %v, want %v", tt.in, err, tt.wantErr)
			}
		})
	}
}
