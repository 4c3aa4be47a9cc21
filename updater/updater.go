package updater

import (
	"bytes"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Updater keeps the deployment in sync with its git remote. On a fixed
// interval it fetches and hard-resets onto the remote branch; when HEAD
// moves, it invokes the restart callback. Failures are logged and the
// loop continues.
type Updater struct {
	interval time.Duration
	branch   string
	restart  func()
}

// NewUpdater creates a new Updater. restart is called after a successful
// update that changed HEAD.
func NewUpdater(interval time.Duration, branch string, restart func()) *Updater {
	return &Updater{
		interval: interval,
		branch:   branch,
		restart:  restart,
	}
}

// Run blocks, updating on every tick until stop is closed.
func (u *Updater) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			u.update()
		case <-stop:
			return
		}
	}
}

func (u *Updater) update() {
	before, err := head()
	if err != nil {
		log.Printf("Self-update: failed to read HEAD: %v", err)
		return
	}

	if err := run("git", "fetch"); err != nil {
		log.Printf("Self-update: fetch failed: %v", err)
		return
	}
	if err := run("git", "reset", "--hard", "origin/"+u.branch); err != nil {
		log.Printf("Self-update: reset failed: %v", err)
		return
	}

	after, err := head()
	if err != nil {
		log.Printf("Self-update: failed to read HEAD: %v", err)
		return
	}

	if before == after {
		log.Println("Self-update: already up to date")
		return
	}

	log.Printf("Self-update: updated %s -> %s, restarting", short(before), short(after))
	u.restart()
}

func head() (string, error) {
	var out bytes.Buffer
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func short(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
