package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gzhole/remindshield/internal/audit"
	"github.com/gzhole/remindshield/internal/config"
	"github.com/gzhole/remindshield/internal/logger"
	"github.com/gzhole/remindshield/internal/logging"
	"github.com/gzhole/remindshield/internal/metrics"
	"github.com/gzhole/remindshield/internal/pipeline"
	"github.com/gzhole/remindshield/internal/policy"
)

// session is everything one command invocation needs: a compiled policy, a
// fresh audit log and the handler wired to both.
type session struct {
	cfg      *config.Config
	compiled *policy.Compiled
	packs    []policy.PackInfo
	log      *audit.Log
	handler  *pipeline.Handler
	registry *prometheus.Registry
	mirror   *logger.AuditLogger
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		PolicyPath: policyPath,
		LogPath:    logPath,
		NoLog:      noLog,
		Debug:      debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadPolicy reads the policy file, merges enabled packs and compiles the
// result.
func loadPolicy(cfg *config.Config) (*policy.Compiled, []policy.PackInfo, error) {
	pol, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load policy: %w", err)
	}

	pol, packs, err := policy.LoadPacks(cfg.PacksDir, pol)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load packs: %w", err)
	}

	compiled, err := policy.Compile(pol)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid policy %s: %w", cfg.PolicyPath, err)
	}
	return compiled, packs, nil
}

// newSession builds a handler. mirror controls whether security events are
// also appended to the JSONL file.
func newSession(mirror bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	compiled, packs, err := loadPolicy(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		compiled: compiled,
		packs:    packs,
		registry: prometheus.NewRegistry(),
	}
	m := metrics.New(s.registry)

	opts := []audit.Option{
		audit.WithSink(m),
		audit.WithSink(logging.AuditSink(zlog)),
		audit.WithErrorHandler(func(err error) {
			zlog.Warn("audit sink failed", zap.Error(err))
		}),
	}
	if mirror && cfg.LogPath != "" {
		al, err := logger.New(cfg.LogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit mirror: %w", err)
		}
		s.mirror = al
		opts = append(opts, audit.WithSink(al))
	}

	s.log = audit.NewLog(opts...)
	s.handler = pipeline.New(pipeline.Deps{
		Detector:   compiled.Detector,
		Calendar:   compiled.Calendar,
		Classifier: compiled.Classifier,
		Log:        s.log,
		Metrics:    m,
		Logger:     zlog,
	})

	zlog.Debug("session ready",
		zap.String("policy", cfg.PolicyPath),
		zap.Int("rules", len(compiled.Detector.Rules())),
		zap.Int("calendar_entries", compiled.Calendar.Len()),
		zap.Int("packs", len(packs)),
		zap.Bool("mirror", s.mirror != nil))

	return s, nil
}

func (s *session) Close() error {
	if s.mirror != nil {
		return s.mirror.Close()
	}
	return nil
}
