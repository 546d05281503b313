package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
)

// Level 表示事件级别。
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Event 是事件日志中的一条记录。
type Event struct {
	Time   time.Time `json:"time"`
	Level  Level     `json:"level"`
	Op     string    `json:"op"`
	Path   string    `json:"path,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// eventKey 构造本次运行中第 seq 条事件的键。
//
// 键按运行标识和序号排列，保证按键排序即按时间排序。
func (j *Journal) eventKey(seq uint64) ds.Key {
	return ds.NewKey(fmt.Sprintf("/events/%s/%016d", j.run, seq))
}

// Record 追加一条事件。
//
// 缺省的时间和级别会被补齐。事件日志是追加写入的，
// 调用方通常以 fire-and-forget 的方式使用它。
func (j *Journal) Record(ctx context.Context, ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	if ev.Level == "" {
		ev.Level = LevelInfo
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return &JournalError{Operation: "encode event", Path: ev.Path, Err: err}
	}

	key := j.eventKey(j.seq.Add(1))
	if err := j.Datastore().Put(ctx, key, data); err != nil {
		return &JournalError{Operation: "record event", Path: ev.Path, Err: err}
	}

	return nil
}

// Events 按写入顺序返回本次运行记录的全部事件。
func (j *Journal) Events(ctx context.Context) ([]Event, error) {
	res, err := j.Datastore().Query(ctx, query.Query{
		Prefix: "/events/" + j.run,
		Orders: []query.Order{query.OrderByKey{}},
	})
	if err != nil {
		return nil, &JournalError{Operation: "query events", Err: err}
	}
	defer res.Close()

	var events []Event
	for result := range res.Next() {
		if result.Error != nil {
			return nil, &JournalError{Operation: "query events", Err: result.Error}
		}

		var ev Event
		if err := json.Unmarshal(result.Value, &ev); err != nil {
			return nil, &JournalError{Operation: "decode event", Path: result.Key, Err: err}
		}

		events = append(events, ev)
	}

	return events, nil
}
