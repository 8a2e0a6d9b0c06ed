package cfg

import (
	"errors"
	"io"

	"github.com/pelletier/go-toml"
)

type Config struct {
	HTTPListenAddr  string `toml:"http_server_listen_addr"`
	HTTPSListenAddr string `toml:"https_server_listen_addr"`
	HTTPSCertFile   string `toml:"https_ssl_cert_file"`
	HTTPSKeyFile    string `toml:"https_ssl_key_file"`

	GithubWebhookEndpoint string `toml:"github_webhook_endpoint"`
	GithubWebHookSecret   string `toml:"github_webhook_secret"`
	GithubAPIToken        string `toml:"github_api_token"`

	GitlabWebhookEndpoint string `toml:"gitlab_webhook_endpoint"`
	GitlabWebhookSecret   string `toml:"gitlab_webhook_secret"`
	GitlabAPIToken        string `toml:"gitlab_api_token"`
	GitlabURL             string `toml:"gitlab_url"`
	GitlabCIProjectID     int    `toml:"gitlab_ci_project_id"`

	LogFormat  string `toml:"log_format"`
	LogTimeKey string `toml:"log_time_key"`
	LogLevel   string `toml:"log_level"`

	MaxConcurrentHandlers  uint `toml:"max_concurrent_handlers"`
	EventChannelBufferSize uint `toml:"event_channel_buffer_size"`

	Repository GithubRepository `toml:"repository"`
	Mirror     Mirror           `toml:"mirror"`
	CI         CI               `toml:"ci"`
	Workflow   Workflow         `toml:"workflow"`
}

type GithubRepository struct {
	Owner          string `toml:"owner"`
	RepositoryName string `toml:"repository"`
}

// Mirror configures the git repository that mirrors pull-request branches to
// trigger CI runs, and the script that performs backport merges.
type Mirror struct {
	RemoteURL       string `toml:"remote_url"`
	CheckoutRootDir string `toml:"checkout_root_dir"`
	BackportScript  string `toml:"backport_script"`
}

type CI struct {
	LaneContext    string `toml:"lane_context"`
	DocBuildName   string `toml:"doc_build_name"`
	DocArtifactURL string `toml:"doc_artifact_url"`
}

type Workflow struct {
	RebaseLabel string `toml:"rebase_label"`
}

const (
	defMaxConcurrentHandlers = 64
	defRebaseLabel           = "needs: rebase"
	defLaneContext           = "ci/mirror"
)

func Load(reader io.Reader) (*Config, error) {
	var result Config

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	result.applyDefaults()

	if err := result.validate(); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *Config) applyDefaults() {
	if r.MaxConcurrentHandlers == 0 {
		r.MaxConcurrentHandlers = defMaxConcurrentHandlers
	}

	if r.Workflow.RebaseLabel == "" {
		r.Workflow.RebaseLabel = defRebaseLabel
	}

	if r.CI.LaneContext == "" {
		r.CI.LaneContext = defLaneContext
	}

	if r.LogFormat == "" {
		r.LogFormat = "logfmt"
	}

	if r.LogLevel == "" {
		r.LogLevel = "info"
	}
}

func (r *Config) validate() error {
	if r.Repository.Owner == "" || r.Repository.RepositoryName == "" {
		return errors.New("repository.owner and repository.repository must be set")
	}

	if r.Mirror.RemoteURL == "" {
		return errors.New("mirror.remote_url must be set")
	}

	if r.Mirror.CheckoutRootDir == "" {
		return errors.New("mirror.checkout_root_dir must be set")
	}

	if r.GitlabURL == "" {
		return errors.New("gitlab_url must be set")
	}

	if r.GithubWebhookEndpoint == "" || r.GitlabWebhookEndpoint == "" {
		return errors.New("github_webhook_endpoint and gitlab_webhook_endpoint must be set")
	}

	if r.CI.DocBuildName != "" && r.CI.DocArtifactURL == "" {
		return errors.New("ci.doc_artifact_url must be set when ci.doc_build_name is set")
	}

	return nil
}

func (r *Config) Marshal(writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(r)
}
