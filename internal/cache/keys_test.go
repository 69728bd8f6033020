package cache

import "testing"

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "prefs",
			objectType:  "default",
			identifier:  "api_key",
			paramsKey:   nil,
			expectedKey: "quizforge:prefs:default:api_key",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "prefs",
			objectType:  "default",
			identifier:  "layout",
			paramsKey:   []string{},
			expectedKey: "quizforge:prefs:default:layout",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "session",
			objectType:  "request",
			identifier:  "abc",
			paramsKey:   []string{"param1", "param2"},
			expectedKey: "quizforge:session:request:abc:param1_param2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestPreferenceKey(t *testing.T) {
	if got := PreferenceKey("classroom-a", "auto_generate"); got != "quizforge:prefs:classroom-a:auto_generate" {
		t.Errorf("PreferenceKey() = %v", got)
	}
}
