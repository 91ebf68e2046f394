//go:build e2e

package gladiator_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared helpers for the GladiatorRX end-to-end suite.
 * The image is built once in TestMain. Each test gets a fresh container and
 * database. Email goes through the log sender, so tokens are read back from
 * the container output.
 */

const (
	testImageName = "gladiator-api-test:latest"

	webhookSecret = "whsec_e2e_gladiator"
)

var tokenParam = regexp.MustCompile(`token=([A-Za-z0-9_\-]+)`)

func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building GladiatorRX Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up GladiatorRX Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/gladiator/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

type gladiatorContainer struct {
	testcontainers.Container
	BaseURL string
	Client  *gxsdk.Client
}

// relaxedRateLimits keeps the strict profile from tripping tests that log in
// repeatedly.
var relaxedRateLimits = map[string]string{
	"RATELIMIT_STRICT_REQUESTS":   "1000",
	"RATELIMIT_STRICT_WINDOW_SEC": "60",
	"RATELIMIT_STRICT_BURST":      "1000",
	"RATELIMIT_MODERATE_REQUESTS": "1000",
	"RATELIMIT_MODERATE_BURST":    "1000",
}

// setupContainer starts the API with relaxed rate limits unless
// defaultLimits is set.
func setupContainer(t *testing.T, defaultLimits bool) *gladiatorContainer {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
		"APP_BASE_URL":          "https://app.gladiatorrx.test",
		"STRIPE_WEBHOOK_SECRET": webhookSecret,
		// Nothing listens here, so every lookup records a provider error.
		"BREACH_API_URL":       "http://127.0.0.1:9",
		"BREACH_API_TIMEOUT":   "2s",
		"REQUIRE_SUBSCRIPTION": "false",
	}
	if !defaultLimits {
		for k, v := range relaxedRateLimits {
			env[k] = v
		}
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/readyz").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return &gladiatorContainer{Container: container, BaseURL: baseURL, Client: gxsdk.NewClient(baseURL)}
}

// cli runs the gladiator binary inside the container and returns its output.
func (c *gladiatorContainer) cli(t *testing.T, args ...string) string {
	t.Helper()
	code, reader, err := c.Exec(t.Context(), append([]string{"gladiator"}, args...), tcexec.Multiplexed())
	require.NoError(t, err)
	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, 0, code, "gladiator %s failed: %s", strings.Join(args, " "), out)
	return string(out)
}

// tokenFromLogs returns the newest token emailed to addr by the server.
func (c *gladiatorContainer) tokenFromLogs(t *testing.T, addr string) string {
	t.Helper()
	var token string
	require.Eventually(t, func() bool {
		rc, err := c.Logs(t.Context())
		if err != nil {
			return false
		}
		defer rc.Close()
		logs, err := io.ReadAll(rc)
		if err != nil {
			return false
		}
		token = lastTokenFor(string(logs), addr)
		return token != ""
	}, 10*time.Second, 200*time.Millisecond, "no email with a token sent to %s", addr)
	return token
}

func lastTokenFor(output, addr string) string {
	token := ""
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, `"to":"`+addr+`"`) {
			continue
		}
		if m := tokenParam.FindStringSubmatch(line); m != nil {
			token = m[1]
		}
	}
	return token
}

// onboardOwner walks addr through the waitlist and returns a logged in owner
// session and the new organization.
func (c *gladiatorContainer) onboardOwner(t *testing.T, addr, password, orgName string) (*gxsdk.Session, gxsdk.Organization) {
	t.Helper()
	ctx := t.Context()

	_, err := c.Client.JoinWaitlist(ctx, gxsdk.WaitlistJoinRequest{Email: addr, Name: "Owner", Company: orgName})
	require.NoError(t, err)

	out := c.cli(t, "admin", "approve", addr)
	token := lastTokenFor(out, addr)
	require.NotEmpty(t, token, "approve output should contain the onboarding link")

	verdict, err := c.Client.VerifyOnboarding(ctx, token)
	require.NoError(t, err)
	require.Equal(t, gxsdk.VerdictValid, verdict.Verdict)

	done, err := c.Client.CompleteOnboarding(ctx, gxsdk.OnboardingCompleteRequest{
		Token:            token,
		Password:         password,
		OrganizationName: orgName,
	})
	require.NoError(t, err)

	return c.login(t, addr, password), done.Organization
}

func (c *gladiatorContainer) login(t *testing.T, addr, password string) *gxsdk.Session {
	t.Helper()
	sess, err := c.Client.Login(t.Context(), gxsdk.LoginRequest{Email: addr, Password: password})
	require.NoError(t, err, "login as %s", addr)
	return sess
}

func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *gxsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %v", err)
	require.Equal(t, code, apiErr.Code)
}
