// Package job contains the scheduled maintenance tasks of the panel.
package job

import (
	"userpanel/logger"
	"userpanel/util/common"
	"userpanel/web/service"
)

// PruneUploadsJob deletes uploaded profile pictures that no account
// references anymore. Scheduled daily by the web server.
type PruneUploadsJob struct {
	userService   service.UserService
	uploadService service.UploadService
}

func NewPruneUploadsJob(uploadFolder string) *PruneUploadsJob {
	return &PruneUploadsJob{
		uploadService: service.UploadService{Folder: uploadFolder},
	}
}

func (j *PruneUploadsJob) Run() {
	defer common.Recover("prune uploads job")

	pics, err := j.userService.AllProfilePics()
	if err != nil {
		logger.Warning("prune uploads: list profile pics err:", err)
		return
	}
	if err := j.uploadService.Prune(pics); err != nil {
		logger.Warning("prune uploads err:", err)
	}
}
