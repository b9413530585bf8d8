package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook ghi log entries qua channel + goroutine riêng để không block request handling.
// Khi buffer đầy, entry bị drop thay vì block (log là best-effort).
type AsyncHook struct {
	writers   []io.Writer
	entries   chan *logrus.Entry
	done      chan struct{}
	closeOnce sync.Once
}

// NewAsyncHookWithWriters tạo async hook ghi ra nhiều writers
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	h := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
		done:    make(chan struct{}),
	}
	go h.processEntries()
	return h
}

// Levels hook áp dụng cho mọi level
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đưa entry vào queue, drop nếu buffer đầy
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	// Copy entry vì logrus có thể reuse
	clone := entry.Dup()
	clone.Level = entry.Level
	clone.Message = entry.Message

	select {
	case h.entries <- clone:
	default:
		// Buffer đầy, drop entry
	}
	return nil
}

// processEntries đọc entries từ channel và ghi ra tất cả writers
func (h *AsyncHook) processEntries() {
	for {
		select {
		case entry := <-h.entries:
			line, err := entry.Logger.Formatter.Format(entry)
			if err != nil {
				continue
			}
			for _, w := range h.writers {
				w.Write(line)
			}
		case <-h.done:
			// Flush nốt các entries còn lại trong buffer
			for {
				select {
				case entry := <-h.entries:
					line, err := entry.Logger.Formatter.Format(entry)
					if err != nil {
						continue
					}
					for _, w := range h.writers {
						w.Write(line)
					}
				default:
					return
				}
			}
		}
	}
}

// Close dừng goroutine xử lý và flush buffer
func (h *AsyncHook) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
	})
	return nil
}
