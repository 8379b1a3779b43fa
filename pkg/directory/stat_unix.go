//go:build linux || darwin

package directory

import (
	"time"

	"golang.org/x/sys/unix"
)

func metadataFromStat(st *unix.Stat_t) Metadata {
	return Metadata{
		Mode:             Mode(st.Mode),
		Size:             st.Size,
		ModificationTime: time.Unix(st.Mtim.Unix()),
		AccessTime:       time.Unix(st.Atim.Unix()),
		ChangeTime:       time.Unix(st.Ctim.Unix()),
		LinkCount:        uint64(st.Nlink),
		UserID:           st.Uid,
		GroupID:          st.Gid,
		DeviceID:         uint64(st.Dev),
		FileID:           uint64(st.Ino),
	}
}
