package domain

import "testing"

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestRawPOINormalizeAliases(t *testing.T) {
	raw := RawPOI{
		Name: "Van Gogh Museum",
		Lat:  floatPtr(52.3584),
		Long: floatPtr(4.8811), // "long" alias instead of "lon"
		Type: "gallery",        // "type" alias instead of "category"
		City: "Amsterdam",
	}

	poi, err := raw.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if poi.Coords.Lon != 4.8811 {
		t.Fatalf("lon = %f, want 4.8811", poi.Coords.Lon)
	}
	if poi.Category != CategoryMuseum {
		t.Fatalf("category = %q, want museum", poi.Category)
	}
	if poi.Priority != 5 {
		t.Fatalf("default priority = %d, want 5", poi.Priority)
	}
}

func TestRawPOINormalizeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		raw  RawPOI
	}{
		{"missing name", RawPOI{Lat: floatPtr(1), Lon: floatPtr(2)}},
		{"missing lat", RawPOI{Name: "x", Lon: floatPtr(2)}},
		{"missing lon", RawPOI{Name: "x", Lat: floatPtr(1)}},
		{"lat out of range", RawPOI{Name: "x", Lat: floatPtr(95), Lon: floatPtr(2)}},
		{"priority out of range", RawPOI{Name: "x", Lat: floatPtr(1), Lon: floatPtr(2), Priority: intPtr(11)}},
		{"half window", RawPOI{Name: "x", Lat: floatPtr(1), Lon: floatPtr(2), OpeningHour: intPtr(9)}},
		{"inverted window", RawPOI{Name: "x", Lat: floatPtr(1), Lon: floatPtr(2), OpeningHour: intPtr(18), ClosingHour: intPtr(9)}},
	}

	for _, tc := range cases {
		if _, err := tc.raw.Normalize(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		} else if !IsValidation(err) {
			t.Errorf("%s: error %v is not a ValidationError", tc.name, err)
		}
	}
}

func TestVisitDurationDefaults(t *testing.T) {
	museum := POI{Name: "m", Category: CategoryMuseum}
	if got := museum.VisitDurationMinutes(); got != 120 {
		t.Fatalf("museum default = %d, want 120", got)
	}

	explicit := POI{Name: "m", Category: CategoryMuseum, VisitMinutes: 45}
	if got := explicit.VisitDurationMinutes(); got != 45 {
		t.Fatalf("explicit duration = %d, want 45", got)
	}

	unknown := POI{Name: "u", Category: Category("weird")}
	if got := unknown.VisitDurationMinutes(); got != 90 {
		t.Fatalf("unknown category default = %d, want 90", got)
	}
}

func TestMinDurationHoursConversion(t *testing.T) {
	raw := RawPOI{
		Name:             "Park",
		Lat:              floatPtr(1),
		Lon:              floatPtr(2),
		MinDurationHours: floatPtr(1.5),
	}

	poi, err := raw.Normalize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poi.VisitMinutes != 90 {
		t.Fatalf("visit minutes = %d, want 90", poi.VisitMinutes)
	}
}
