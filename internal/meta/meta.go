// Package meta collects the run identity (host, branch, commit) and builds
// the published metadata document.
package meta

import (
	"context"
	"fmt"
	"os"
	"strings"

	"benchup/internal/gitinfo"
)

// Identity names one benchmark run: where it ran and what code it ran.
// It is recomputed from the environment on every invocation.
type Identity struct {
	Host   string
	Branch string
	Commit string
}

// Collect builds the identity from the hostname and the local git checkout.
func Collect(ctx context.Context, git gitinfo.Source) (Identity, error) {
	host, err := os.Hostname()
	if err != nil {
		return Identity{}, fmt.Errorf("meta: hostname: %w", err)
	}
	branch, err := git.CurrentBranch(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("meta: %w", err)
	}
	commit, err := git.CurrentCommit(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("meta: %w", err)
	}
	return Identity{Host: host, Branch: branch, Commit: commit}, nil
}

// Description is the naming convention for published result sets.
func (id Identity) Description() string {
	return fmt.Sprintf("%s_%s", id.Host, id.Branch)
}

// BaselinePrefix identifies the published master-branch baseline for this
// host.
func (id Identity) BaselinePrefix() string {
	return fmt.Sprintf("%s_master", id.Host)
}

// ShortCommit truncates the commit hash for display. The length is
// cosmetic only.
func (id Identity) ShortCommit(n int) string {
	if n > 0 && len(id.Commit) > n {
		return id.Commit[:n]
	}
	return id.Commit
}

// Banner frames a title in a 78-column banner, matching the layout of the
// published metadata document and console output.
func Banner(title string) string {
	bar := strings.Repeat("=", 78)
	return fmt.Sprintf("\n%s\n|%s|\n%s\n\n", bar, center(title, 76), bar)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// Build assembles the meta_data.txt document published alongside the
// results: a banner, the run identity block, the warnings block carried
// over from the results file, and the full CPU info dump.
//
// By convention the first line of the results metadata block is the CPU
// model and the second is the run date.
func Build(id Identity, resultsMeta, cpuInfo string, commitLen int) string {
	lines := strings.Split(resultsMeta, "\n")
	cpu, date := "", ""
	if len(lines) > 0 {
		cpu = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		date = strings.TrimSpace(lines[1])
	}

	var sb strings.Builder
	sb.WriteString(Banner(fmt.Sprintf("%s, %s, %s", id.Host, id.Branch, id.ShortCommit(commitLen))))
	fmt.Fprintf(&sb, "    Date:               %s\n", date)
	fmt.Fprintf(&sb, "    Benchmark Machine:  %s\n", id.Host)
	fmt.Fprintf(&sb, "    CPU:                %s\n", cpu)
	fmt.Fprintf(&sb, "    Branch:             %s\n", id.Branch)
	fmt.Fprintf(&sb, "    Full commit hash:   %s\n", id.Commit)
	sb.WriteString("\nWarnings:\n")
	sb.WriteString(resultsMeta)
	sb.WriteString(Banner("CPU INFO"))
	sb.WriteString(cpuInfo)
	return sb.String()
}

// CPUInfo returns the /proc/cpuinfo dump, or an empty string on platforms
// without one.
func CPUInfo() string {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return ""
	}
	return string(data)
}
