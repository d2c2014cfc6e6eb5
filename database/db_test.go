package database

import "testing"

func TestConnectRetries(t *testing.T) {
	cases := []struct {
		name string
		env  string
		want int
	}{
		{"default", "", 5},
		{"explicit", "3", 3},
		{"malformed falls back", "garbage", 5},
		{"zero falls back", "0", 5},
		{"negative falls back", "-2", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DB_CONNECT_RETRIES", tc.env)
			if got := connectRetries(); got != tc.want {
				t.Fatalf("connectRetries() with %q = %d, want %d", tc.env, got, tc.want)
			}
		})
	}
}
