package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TypeQueue = "queue"
	TypeHTTP  = "http"

	ProviderAWSSQS = "aws-sqs"
	ProviderAWSSNS = "aws-sns"
	ProviderGCP    = "gcp"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// SinkConfig declares one run-event sink in the sinks file.
type SinkConfig struct {
	ID      string       `json:"id" yaml:"id"`
	Type    string       `json:"type" yaml:"type"`
	Enabled *bool        `json:"enabled" yaml:"enabled"`
	Queue   *QueueConfig `json:"queue" yaml:"queue"`
	HTTP    *HTTPConfig  `json:"http" yaml:"http"`
}

// QueueConfig selects a cloud queue provider. Both AWS providers read the
// shared aws block; gcp has its own.
type QueueConfig struct {
	Provider string          `json:"provider" yaml:"provider"`
	AWS      *AWSQueueConfig `json:"aws" yaml:"aws"`
	GCP      *GCPQueueConfig `json:"gcp" yaml:"gcp"`
}

// AWSQueueConfig holds the AWS settings: aws-sqs reads queue_url, aws-sns
// reads topic_arn. Static keys are optional; when absent the SDK's default
// credential chain applies.
type AWSQueueConfig struct {
	QueueURL        string `json:"queue_url" yaml:"queue_url"`
	TopicARN        string `json:"topic_arn" yaml:"topic_arn"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPQueueConfig holds the Pub/Sub topic settings. Without a credentials
// file the client uses application default credentials.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPConfig holds the webhook sink settings.
type HTTPConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

type sinksFile struct {
	Publishers []SinkConfig `json:"publishers" yaml:"publishers"`
}

// Load reads and validates the sinks file. Environment references in the
// file body are expanded before decoding, so secrets stay out of the file
// itself. YAML is the default format; a .json extension switches to JSON.
func Load(path string) ([]SinkConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sinks file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sinks file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(raw)))

	var file sinksFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(expanded, &file)
	} else {
		err = yaml.Unmarshal(expanded, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode sinks file: %w", err)
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("sinks file declares no publishers")
	}

	ids := make(map[string]bool, len(file.Publishers))
	out := make([]SinkConfig, 0, len(file.Publishers))
	for i, cfg := range file.Publishers {
		cfg = cfg.sanitized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if ids[cfg.ID] {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		ids[cfg.ID] = true
		out = append(out, cfg)
	}
	return out, nil
}

// Enabled filters out sinks disabled in the file.
func Enabled(cfgs []SinkConfig) []SinkConfig {
	var out []SinkConfig
	for _, cfg := range cfgs {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue reports the enabled flag, defaulting to true.
func (cfg SinkConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

func (cfg SinkConfig) sanitized() SinkConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if q := cfg.Queue; q != nil {
		qc := *q
		qc.Provider = strings.ToLower(strings.TrimSpace(qc.Provider))
		if qc.AWS != nil {
			a := *qc.AWS
			a.QueueURL = strings.TrimSpace(a.QueueURL)
			a.TopicARN = strings.TrimSpace(a.TopicARN)
			a.Region = strings.TrimSpace(a.Region)
			a.AccessKeyID = strings.TrimSpace(a.AccessKeyID)
			a.SecretAccessKey = strings.TrimSpace(a.SecretAccessKey)
			qc.AWS = &a
		}
		if qc.GCP != nil {
			g := *qc.GCP
			g.ProjectID = strings.TrimSpace(g.ProjectID)
			g.Topic = strings.TrimSpace(g.Topic)
			g.CredentialsFile = strings.TrimSpace(g.CredentialsFile)
			qc.GCP = &g
		}
		cfg.Queue = &qc
	}
	if h := cfg.HTTP; h != nil {
		hc := *h
		hc.URL = strings.TrimSpace(hc.URL)
		hc.Method = strings.ToUpper(strings.TrimSpace(hc.Method))
		if hc.Method == "" {
			hc.Method = httpDefaultMethod
		}
		if hc.TimeoutSeconds <= 0 {
			hc.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		hc.Headers = cleanHeaders(hc.Headers)
		cfg.HTTP = &hc
	}
	return cfg
}

func cleanHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (cfg SinkConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	switch cfg.Type {
	case TypeHTTP:
		if cfg.HTTP == nil || cfg.HTTP.URL == "" {
			return fmt.Errorf("http.url is required for publisher %q", cfg.ID)
		}
		return nil
	case TypeQueue:
		if cfg.Queue == nil {
			return fmt.Errorf("queue config required for publisher %q", cfg.ID)
		}
		return cfg.Queue.validate(cfg.ID)
	default:
		return fmt.Errorf("type %q not supported for publisher %q", cfg.Type, cfg.ID)
	}
}

func (q *QueueConfig) validate(id string) error {
	switch q.Provider {
	case ProviderAWSSQS:
		return validateAWS(id, q.AWS, "queue_url", func(a *AWSQueueConfig) string { return a.QueueURL })
	case ProviderAWSSNS:
		return validateAWS(id, q.AWS, "topic_arn", func(a *AWSQueueConfig) string { return a.TopicARN })
	case ProviderGCP:
		if q.GCP == nil {
			return fmt.Errorf("gcp config required for publisher %q", id)
		}
		if q.GCP.ProjectID == "" {
			return fmt.Errorf("gcp.project_id is required for publisher %q", id)
		}
		if q.GCP.Topic == "" {
			return fmt.Errorf("gcp.topic is required for publisher %q", id)
		}
		return nil
	default:
		return fmt.Errorf("queue provider %q not supported for publisher %q", q.Provider, id)
	}
}

func validateAWS(id string, a *AWSQueueConfig, targetField string, target func(*AWSQueueConfig) string) error {
	if a == nil {
		return fmt.Errorf("aws config required for publisher %q", id)
	}
	if target(a) == "" {
		return fmt.Errorf("aws.%s is required for publisher %q", targetField, id)
	}
	if a.Region == "" {
		return fmt.Errorf("aws.region is required for publisher %q", id)
	}
	// Static keys come as a pair or not at all.
	if (a.AccessKeyID == "") != (a.SecretAccessKey == "") {
		return fmt.Errorf("aws static credentials incomplete for publisher %q", id)
	}
	return nil
}
