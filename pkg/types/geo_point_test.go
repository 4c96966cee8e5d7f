package types

import "testing"

func TestGeoPointRoundTrip(t *testing.T) {
	original := GeoPoint{Lat: 28.6139, Lng: 77.209}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded GeoPoint
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if decoded != original {
		t.Fatalf("expected %+v got %+v", original, decoded)
	}
}

func TestGeoPointRejectsOutOfRange(t *testing.T) {
	bad := GeoPoint{Lat: 123.4, Lng: 10}
	if _, err := bad.Value(); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestGeoPointScanNil(t *testing.T) {
	point := GeoPoint{Lat: 1, Lng: 2}
	if err := point.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if point != (GeoPoint{}) {
		t.Fatalf("expected zero point, got %+v", point)
	}
}

func TestAddressRoundTrip(t *testing.T) {
	original := Address{
		Line1:      "Shop 14, Azad Market",
		City:       "Delhi",
		State:      "DL",
		PostalCode: "110006",
		Country:    "IN",
	}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded Address
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if decoded != original {
		t.Fatalf("expected %+v got %+v", original, decoded)
	}
}

func TestAddressRequiresLine1(t *testing.T) {
	bad := Address{City: "Delhi"}
	if _, err := bad.Value(); err == nil {
		t.Fatalf("expected missing line1 error")
	}
}
