package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jeanpaul/tvyn/internal/provider"
)

// ModelLister is the part of a provider the checks need.
type ModelLister interface {
	Name() string
	Models(ctx context.Context) ([]string, error)
}

type Status struct {
	Provider  string
	BaseURL   string
	Reachable bool
	Models    []string
	Error     string
	Latency   time.Duration
}

// Check verifies that a provider endpoint is reachable and responding by
// listing its models.
func Check(ctx context.Context, p ModelLister, baseURL string) Status {
	s := Status{Provider: p.Name(), BaseURL: baseURL}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models, err := p.Models(ctx)
	s.Latency = time.Since(start)
	if err != nil {
		s.Error = fmt.Sprintf("cannot reach %s: %s", baseURL, friendlyError(err))
		return s
	}
	s.Reachable = true
	s.Models = models
	return s
}

// CheckModel verifies that a specific model is available on the provider.
func CheckModel(ctx context.Context, p ModelLister, baseURL, modelName string) error {
	status := Check(ctx, p, baseURL)
	if !status.Reachable {
		return fmt.Errorf("provider not reachable: %s", status.Error)
	}
	if len(status.Models) == 0 {
		return nil // endpoint doesn't list models, skip check
	}
	for _, m := range status.Models {
		if m == modelName || strings.TrimSuffix(m, ":latest") == modelName {
			return nil
		}
	}
	return fmt.Errorf("model %q not found; available: %s", modelName, strings.Join(status.Models, ", "))
}

func friendlyError(err error) string {
	if code, ok := provider.StatusCode(err); ok && (code == http.StatusUnauthorized || code == http.StatusForbidden) {
		return "authentication failed; check your API key"
	}
	return provider.FriendlyError(err)
}
