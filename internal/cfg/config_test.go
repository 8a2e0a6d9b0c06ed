package cfg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleConfig = `
http_server_listen_addr = ":8084"
github_webhook_endpoint = "/listener/github"
github_webhook_secret = "hook-secret"
github_api_token = "gh-token"
gitlab_webhook_endpoint = "/listener/gitlab"
gitlab_webhook_secret = "gl-hook-secret"
gitlab_api_token = "gl-token"
gitlab_url = "https://gitlab.example.com"
gitlab_ci_project_id = 7

[repository]
owner = "testman"
repository = "repo"

[mirror]
remote_url = "git@gitlab.example.com:testman/repo.git"
checkout_root_dir = "/var/lib/mirrorbot"
backport_script = "/usr/local/bin/backport-pr.sh"

[ci]
lane_context = "ci/gitlab"
doc_build_name = "doc:refman"
doc_artifact_url = "https://ci.example.com/jobs/%d/artifacts/refman/index.html"

[workflow]
rebase_label = "needs: rebase"
`

func TestLoad(t *testing.T) {
	config, err := Load(strings.NewReader(exampleConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8084", config.HTTPListenAddr)
	assert.Equal(t, "/listener/github", config.GithubWebhookEndpoint)
	assert.Equal(t, "/listener/gitlab", config.GitlabWebhookEndpoint)
	assert.Equal(t, "gl-token", config.GitlabAPIToken)
	assert.Equal(t, 7, config.GitlabCIProjectID)
	assert.Equal(t, "testman", config.Repository.Owner)
	assert.Equal(t, "repo", config.Repository.RepositoryName)
	assert.Equal(t, "git@gitlab.example.com:testman/repo.git", config.Mirror.RemoteURL)
	assert.Equal(t, "/usr/local/bin/backport-pr.sh", config.Mirror.BackportScript)
	assert.Equal(t, "ci/gitlab", config.CI.LaneContext)
	assert.Equal(t, "doc:refman", config.CI.DocBuildName)
	assert.Equal(t, "needs: rebase", config.Workflow.RebaseLabel)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg := `
github_webhook_endpoint = "/listener/github"
gitlab_webhook_endpoint = "/listener/gitlab"
gitlab_url = "https://gitlab.example.com"

[repository]
owner = "testman"
repository = "repo"

[mirror]
remote_url = "git@gitlab.example.com:testman/repo.git"
checkout_root_dir = "/var/lib/mirrorbot"
`

	config, err := Load(strings.NewReader(cfg))
	require.NoError(t, err)

	assert.Equal(t, uint(defMaxConcurrentHandlers), config.MaxConcurrentHandlers)
	assert.Equal(t, defRebaseLabel, config.Workflow.RebaseLabel)
	assert.Equal(t, defLaneContext, config.CI.LaneContext)
	assert.Equal(t, "logfmt", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
}

func TestLoadFailsOnDocBuildWithoutArtifactURL(t *testing.T) {
	cfg := `
github_webhook_endpoint = "/listener/github"
gitlab_webhook_endpoint = "/listener/gitlab"
gitlab_url = "https://gitlab.example.com"

[repository]
owner = "testman"
repository = "repo"

[mirror]
remote_url = "git@gitlab.example.com:testman/repo.git"
checkout_root_dir = "/var/lib/mirrorbot"

[ci]
doc_build_name = "doc:refman"
`

	_, err := Load(strings.NewReader(cfg))
	require.ErrorContains(t, err, "doc_artifact_url")
}

func TestLoadFailsOnMissingRepository(t *testing.T) {
	cfg := `
github_webhook_endpoint = "/listener/github"
gitlab_webhook_endpoint = "/listener/gitlab"
gitlab_url = "https://gitlab.example.com"

[mirror]
remote_url = "git@gitlab.example.com:testman/repo.git"
checkout_root_dir = "/var/lib/mirrorbot"
`

	_, err := Load(strings.NewReader(cfg))
	require.Error(t, err)
}
