//go:build !windows
// +build !windows

// The watchgroup command prints the membership of a process group once a
// second. A group-wide signal strikes every process listed, so this is the
// quickest way to see who a benchmark run will touch.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/m-lab/go/rtx"
	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

var (
	procPath = "/proc"
	pgid     int
)

func init() {
	flag.IntVar(&pgid, "pgid", 0, "watch this process group (0 means our own)")
}

func members(pfs procfs.FS, pgid int) ([]procfs.ProcStat, error) {
	procs, err := pfs.AllProcs()
	if err != nil {
		return nil, err
	}
	stats := []procfs.ProcStat{}
	for _, p := range procs {
		st, err := p.Stat()
		if err != nil {
			// The process exited between the listing and the read.
			continue
		}
		if st.PGRP == pgid {
			stats = append(stats, st)
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].PID < stats[j].PID })
	return stats, nil
}

func main() {
	flag.Parse()
	if pgid == 0 {
		pgid = unix.Getpgrp()
	}

	pfs, err := procfs.NewFS(procPath)
	rtx.Must(err, "Failed to create a new procfs reader")

	t := time.NewTicker(time.Second)
	for ; ; <-t.C {
		stats, err := members(pfs, pgid)
		if err != nil {
			log.Println(err)
			continue
		}
		fmt.Printf("group %d:", pgid)
		for _, st := range stats {
			fmt.Printf(" %d(%s)", st.PID, st.Comm)
		}
		fmt.Println()
	}
}
