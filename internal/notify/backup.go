package notify

import (
	"context"
	"log"
	"time"
)

// Snapshotter returns the encoded store document. *core.Store satisfies it.
type Snapshotter interface {
	Snapshot() ([]byte, error)
}

// BackupSender mails an encoded document. *Mailer satisfies it.
type BackupSender interface {
	SendBackup(ctx context.Context, to string, raw []byte) error
}

// RunBackups emails a snapshot to `to` every interval until ctx is cancelled.
// Failures are logged and the next tick tries again.
func RunBackups(ctx context.Context, src Snapshotter, sender BackupSender, to string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			backupOnce(ctx, src, sender, to)
		}
	}
}

func backupOnce(ctx context.Context, src Snapshotter, sender BackupSender, to string) {
	raw, err := src.Snapshot()
	if err != nil {
		log.Printf("backup: snapshot: %v", err)
		return
	}
	sendCtx, cancel := context.WithTimeout(ctx, defaultLegTimeout)
	defer cancel()
	if err := sender.SendBackup(sendCtx, to, raw); err != nil {
		log.Printf("backup: %v", err)
		return
	}
	log.Printf("backup: sent %d bytes to %s", len(raw), to)
}
