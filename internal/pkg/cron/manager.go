package cron

import (
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine *cron.Cron
	jobs   []scheduled
}

type scheduled struct {
	name     string
	schedule string
	job      cron.Job
}

// NewCronManager 表达式带秒字段，如 "0 0 2 * * *"
func NewCronManager() *Manager {
	return &Manager{
		engine: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Add 登记定时任务，RegisterJobs 时统一注册
func (s *Manager) Add(name, schedule string, job cron.Job) {
	s.jobs = append(s.jobs, scheduled{name: name, schedule: schedule, job: job})
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	for _, j := range s.jobs {
		if _, err := s.engine.AddJob(j.schedule, j.job); err != nil {
			return fmt.Errorf("register cron job %s (%s): %w", j.name, j.schedule, err)
		}
		log.Info("cron job registered", "job", j.name, "schedule", j.schedule)
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
