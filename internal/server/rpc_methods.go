package server

import (
	"context"

	"github.com/creachadair/jrpc2/handler"
)

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// ScheduleResult is the response for schedule.today.
type ScheduleResult struct {
	Day        string     `json:"day"`
	IsClassDay bool       `json:"isClassDay"`
	Slots      []SlotView `json:"slots"`
	Tasks      []TaskView `json:"tasks"`
}

// TaskView is a pending task as reported by schedule.today.
type TaskView struct {
	Name       string `json:"name"`
	At         string `json:"at"`
	Recurrence string `json:"recurrence"`
}

func (rs *RPCServer) methods() handler.Map {
	return handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"status.get":        handler.New(rs.statusGet),
		"schedule.today":    handler.New(rs.scheduleToday),
	}
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.cfg.Version,
		Commit:    rs.cfg.Commit,
		BuildType: rs.cfg.BuildType,
	}, nil
}

func (rs *RPCServer) statusGet(_ context.Context) (*Snapshot, error) {
	snap := rs.store.Load()
	return &snap, nil
}

func (rs *RPCServer) scheduleToday(_ context.Context) (*ScheduleResult, error) {
	snap := rs.store.Load()
	res := &ScheduleResult{
		Day:        snap.Day,
		IsClassDay: snap.IsClassDay,
		Slots:      snap.Slots,
		Tasks:      make([]TaskView, 0, len(snap.Tasks)),
	}
	if res.Slots == nil {
		res.Slots = []SlotView{}
	}
	for _, t := range snap.Tasks {
		res.Tasks = append(res.Tasks, TaskView{
			Name:       t.Name,
			At:         t.At.Format("2006-01-02 15:04"),
			Recurrence: t.Recurrence,
		})
	}
	return res, nil
}
