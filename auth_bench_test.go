package goNotes

import (
	"context"
	"testing"
)

func BenchmarkAuthenticate(b *testing.B) {
	e := newTestEngine(b, testConfig(), nil)

	res, err := e.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "pw"})
	if err != nil {
		b.Fatalf("register failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Authenticate(context.Background(), res.Token); err != nil {
			b.Fatalf("authenticate failed: %v", err)
		}
	}
}

func BenchmarkLogin(b *testing.B) {
	e := newTestEngine(b, testConfig(), nil)

	if _, err := e.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "pw"}); err != nil {
		b.Fatalf("register failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Login(context.Background(), "a@example.com", "pw"); err != nil {
			b.Fatalf("login failed: %v", err)
		}
	}
}

func BenchmarkMetricsInc(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.Inc(MetricLoginSuccess)
	}
}

func BenchmarkMetricsIncParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Inc(MetricLoginSuccess)
		}
	})
}
