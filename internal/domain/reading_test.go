package domain

import (
	"testing"
)

func TestNewLightReading(t *testing.T) {
	tests := []struct {
		name    string
		lux     float64
		wantErr bool
	}{
		{
			name:    "valid reading",
			lux:     500.0,
			wantErr: false,
		},
		{
			name:    "zero lux is valid",
			lux:     0.0,
			wantErr: false,
		},
		{
			name:    "negative lux is invalid",
			lux:     -10.0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading, err := NewLightReading(tt.lux)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if reading.Lux != tt.lux {
				t.Errorf("expected lux %v, got %v", tt.lux, reading.Lux)
			}
		})
	}
}

func TestNewLightReadingFromSample(t *testing.T) {
	tests := []struct {
		name    string
		sample  ColorSample
		wantErr error
	}{
		{
			name:   "full sample",
			sample: ColorSample{Red: 300, Green: 200, Blue: 100, White: 700, CCT: 2582, Lux: 50.336},
		},
		{
			name:   "dark sample without CCT",
			sample: ColorSample{Lux: 0},
		},
		{
			name:    "undefined lux sentinel is rejected",
			sample:  ColorSample{Green: 10, Lux: -1},
			wantErr: ErrInvalidLux,
		},
		{
			name:    "negative CCT is rejected",
			sample:  ColorSample{Lux: 10, CCT: -5},
			wantErr: ErrInvalidCCT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading, err := NewLightReadingFromSample(tt.sample)
			if err != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if err != nil {
				return
			}

			if reading.Red != tt.sample.Red || reading.Green != tt.sample.Green ||
				reading.Blue != tt.sample.Blue || reading.White != tt.sample.White {
				t.Errorf("channels not copied: got %+v from %+v", reading, tt.sample)
			}
			if reading.CCT != tt.sample.CCT {
				t.Errorf("expected CCT %d, got %d", tt.sample.CCT, reading.CCT)
			}
			if reading.Timestamp.IsZero() {
				t.Error("expected timestamp to be set")
			}
		})
	}
}

func TestLightReading_IsLowLight(t *testing.T) {
	tests := []struct {
		lux  float64
		want bool
	}{
		{lux: 100, want: true},
		{lux: 199, want: true},
		{lux: 200, want: false},
		{lux: 500, want: false},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			reading, _ := NewLightReading(tt.lux)
			if got := reading.IsLowLight(); got != tt.want {
				t.Errorf("IsLowLight() = %v, want %v for lux %v", got, tt.want, tt.lux)
			}
		})
	}
}

func TestLightReading_LightCategory(t *testing.T) {
	tests := []struct {
		lux  float64
		want string
	}{
		{lux: 100, want: "Low Light"},
		{lux: 500, want: "Medium Light"},
		{lux: 3000, want: "High Light"},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			reading, _ := NewLightReading(tt.lux)
			if got := reading.LightCategory(); got != tt.want {
				t.Errorf("LightCategory() = %v, want %v for lux %v", got, tt.want, tt.lux)
			}
		})
	}
}

func TestLightReading_ColorCategory(t *testing.T) {
	tests := []struct {
		cct  int
		want string
	}{
		{cct: 0, want: "Unknown"},
		{cct: 2582, want: "Warm"},
		{cct: 3500, want: "Neutral"},
		{cct: 4999, want: "Neutral"},
		{cct: 6500, want: "Cool"},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			reading, _ := NewLightReadingFromSample(ColorSample{CCT: tt.cct, Lux: 100})
			if got := reading.ColorCategory(); got != tt.want {
				t.Errorf("ColorCategory() = %v, want %v for CCT %v", got, tt.want, tt.cct)
			}
		})
	}
}
