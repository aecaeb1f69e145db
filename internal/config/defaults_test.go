package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestSetViperDefaults(t *testing.T) {
	v := viper.New()
	setViperDefaults(v)

	if got := v.GetInt("server.http_port"); got != DefaultServerHTTPPort {
		t.Errorf("server.http_port = %d, want %d", got, DefaultServerHTTPPort)
	}
	if got := v.GetString("embeddings.provider"); got != DefaultEmbeddingsProvider {
		t.Errorf("embeddings.provider = %q, want %q", got, DefaultEmbeddingsProvider)
	}
	if got := v.GetBool("insights.enabled"); got != DefaultInsightsEnabled {
		t.Errorf("insights.enabled = %v, want %v", got, DefaultInsightsEnabled)
	}
	if got := v.GetInt("graph.port"); got != DefaultGraphPort {
		t.Errorf("graph.port = %d, want %d", got, DefaultGraphPort)
	}
}
