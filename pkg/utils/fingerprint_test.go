package utils

import "testing"

func TestHashContent_Deterministic(t *testing.T) {
	a := HashContent([]byte("package main"))
	b := HashContent([]byte("package main"))
	if a != b {
		t.Errorf("HashContent() not deterministic: %q vs %q", a, b)
	}
}

func TestHashContent_DifferentInput(t *testing.T) {
	a := HashContent([]byte("foo"))
	b := HashContent([]byte("bar"))
	if a == b {
		t.Errorf("HashContent() collided for different inputs: %q", a)
	}
}

func TestHashOptions_Deterministic(t *testing.T) {
	type opts struct {
		Timeout int
		Fix     bool
	}
	a, err := HashOptions(opts{Timeout: 5000, Fix: true})
	if err != nil {
		t.Fatalf("HashOptions() error = %v", err)
	}
	b, err := HashOptions(opts{Timeout: 5000, Fix: true})
	if err != nil {
		t.Fatalf("HashOptions() error = %v", err)
	}
	if a != b {
		t.Errorf("HashOptions() not deterministic: %q vs %q", a, b)
	}
}

func TestHashOptions_DifferentInput(t *testing.T) {
	type opts struct{ Timeout int }
	a, _ := HashOptions(opts{Timeout: 1000})
	b, _ := HashOptions(opts{Timeout: 2000})
	if a == b {
		t.Errorf("HashOptions() collided for different inputs: %q", a)
	}
}
