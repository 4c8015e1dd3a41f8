package cron

import (
	"Feedcore/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// 每分钟的第 0 秒
const fanoutRetrySpec = "0 * * * * *"

type Manager struct {
	engine         *cron.Cron
	fanoutRetryJob *job.FanoutRetryJob
}

func NewCronManager(fanoutRetryJob *job.FanoutRetryJob) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		fanoutRetryJob: fanoutRetryJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(fanoutRetrySpec, cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(s.fanoutRetryJob)); err != nil {
		return err
	}
	return nil
}

// Start 注册任务并启动引擎
func (s *Manager) Start() error {
	if err := s.RegisterJobs(); err != nil {
		return err
	}
	log.Info("Cron 定时任务引擎启动", "jobs", len(s.engine.Entries()))
	s.engine.Start()
	return nil
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
