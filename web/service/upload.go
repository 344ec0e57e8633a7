package service

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"userpanel/logger"
	"userpanel/util/common"

	"github.com/google/uuid"
)

// UploadService stores profile pictures under the upload folder and hands
// back the public path recorded against the user. File type and size are
// not validated; the panel trusts its users here.
type UploadService struct {
	Folder string
}

// Store writes the uploaded file under a collision-resistant name built
// from the upload time, a random id, and the original file name, and
// returns its public /uploads path.
func (s *UploadService) Store(src io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.Folder, fs.ModePerm); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], filepath.Base(originalName))
	dst, err := os.Create(filepath.Join(s.Folder, name))
	if err != nil {
		return "", common.NewErrorf("create upload %s: %v", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", common.NewErrorf("write upload %s: %v", name, err)
	}
	return "/uploads/" + name, nil
}

// pruneGrace is how long a file may sit in the upload folder without a
// database reference before Prune considers it an orphan. It covers the
// gap between Store writing the file and the profile-pic update landing.
const pruneGrace = time.Hour

// Prune removes files from the upload folder that no account references
// anymore, e.g. after a new picture replaced an old one or an account was
// deleted. Files younger than pruneGrace are left alone.
func (s *UploadService) Prune(referenced []string) error {
	keep := make(map[string]bool, len(referenced))
	for _, p := range referenced {
		keep[filepath.Base(p)] = true
	}

	entries, err := os.ReadDir(s.Folder)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || keep[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < pruneGrace {
			continue
		}
		if err := os.Remove(filepath.Join(s.Folder, entry.Name())); err != nil {
			logger.Warning("prune upload err:", err)
			continue
		}
		logger.Debugf("pruned unreferenced upload %s", entry.Name())
	}
	return nil
}
