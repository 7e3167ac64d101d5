package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/talkincode/toughpos/internal/domain"
)

// BackupDatabase exports the store tables to CSV files under the workdir and
// uploads them over SFTP when a backup host is configured.
func (a *Application) BackupDatabase() error {
	stamp := time.Now().Format("20060102")
	dir := filepath.Join(a.appConfig.System.Workdir, "backup", stamp)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var products []domain.Product
	if err := a.gormDB.Order("id").Find(&products).Error; err != nil {
		return err
	}
	if err := writeCsvFile(filepath.Join(dir, "products.csv"), &products); err != nil {
		return err
	}

	var transactions []domain.Transaction
	if err := a.gormDB.Order("id").Find(&transactions).Error; err != nil {
		return err
	}
	if err := writeCsvFile(filepath.Join(dir, "transactions.csv"), &transactions); err != nil {
		return err
	}

	var items []domain.TransactionItem
	if err := a.gormDB.Order("id").Find(&items).Error; err != nil {
		return err
	}
	if err := writeCsvFile(filepath.Join(dir, "transaction_items.csv"), &items); err != nil {
		return err
	}

	zap.S().Infof("database backup written to %s", dir)

	if a.appConfig.Backup.Enable {
		if err := a.uploadBackupDir(dir, stamp); err != nil {
			return err
		}
	}
	return nil
}

func writeCsvFile(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}

func (a *Application) uploadBackupDir(dir, stamp string) error {
	cfg := a.appConfig.Backup
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	sshClient, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Passwd)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	})
	if err != nil {
		return err
	}
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return err
	}
	defer client.Close()

	remoteDir := filepath.Join(cfg.Dir, stamp)
	if err := client.MkdirAll(remoteDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		dst, err := client.Create(filepath.Join(remoteDir, entry.Name()))
		if err != nil {
			return err
		}
		if _, err := dst.Write(data); err != nil {
			dst.Close()
			return err
		}
		dst.Close()
	}

	zap.S().Infof("database backup uploaded to %s:%s", cfg.Host, remoteDir)
	return nil
}
