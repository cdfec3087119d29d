package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"auth": map[string]any{
			"bcryptCost": 12,
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "AUTH_BCRYPTCOST", want: "auth.bcryptCost"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestTransformEnv_LegacyNames(t *testing.T) {
	key, value := transformEnv("JWT_SECRET", "s3cret", nil)
	if key != "auth.jwtSecret" || value != "s3cret" {
		t.Fatalf("JWT_SECRET mapped to %q=%v", key, value)
	}

	key, value = transformEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "15", nil)
	if key != "auth.accessTokenExpireMinutes" || value != "15" {
		t.Fatalf("ACCESS_TOKEN_EXPIRE_MINUTES mapped to %q=%v", key, value)
	}

	key, value = transformEnv("ALLOW_ORIGINS", "http://a.test, http://b.test,,", nil)
	origins, ok := value.([]string)
	if key != "http.allowOrigins" || !ok {
		t.Fatalf("ALLOW_ORIGINS mapped to %q=%#v", key, value)
	}
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %#v", origins)
	}
}
