package fingerprint

import "testing"

func TestComputeIsStableAcrossVolatileFrameDetail(t *testing.T) {
	framesA := []Frame{NormalizeFrame("MyApp.Service.DoWork(Int32 id) in /src/service.go:42")}
	framesB := []Frame{NormalizeFrame("MyApp.Service.DoWork(Int32 id) in /src/service.go:57")}

	a := Compute("System.NullReferenceException", "user 123 not found", framesA)
	b := Compute("System.NullReferenceException", "user 123 not found", framesB)

	if a != b {
		t.Fatalf("expected identical fingerprints for the same fault at different line numbers, got %q vs %q", a, b)
	}
}

func TestComputeDistinguishesDifferentMessages(t *testing.T) {
	frames := []Frame{NormalizeFrame("MyApp.Service.DoWork(Int32 id) in /src/service.go:42")}

	a := Compute("System.NullReferenceException", "user 123 not found", frames)
	b := Compute("System.NullReferenceException", "user 456 not found", frames)

	if a == b {
		t.Fatal("expected messages differing only by an embedded id to produce different fingerprints")
	}
}

func TestComputeDistinguishesDifferentFaults(t *testing.T) {
	a := Compute("System.NullReferenceException", "boom", nil)
	b := Compute("System.ArgumentException", "boom", nil)
	if a == b {
		t.Fatal("expected different exception types to produce different fingerprints")
	}
}

func TestNormalizeFrameSplitsTypeAndMethod(t *testing.T) {
	f := NormalizeFrame("MyApp.Service.DoWork(Int32 id) in /src/service.go:42")
	if f.Type != "MyApp.Service" || f.Method != "DoWork" {
		t.Fatalf("unexpected normalized frame: %+v", f)
	}
}
