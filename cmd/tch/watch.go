package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/4thel00z/teachable/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a live classification session",
		Long: `Import the samples folder, then watch two directories: images dropped
into the inbox are classified and printed; images dropped into a label
directory under the samples folder join the store incrementally.`,
		RunE: makeWatchRunner(),
	}

	cmd.Flags().StringP("samples", "s", "", "Samples folder (label = parent directory)")
	cmd.Flags().StringP("inbox", "i", "", "Directory to watch for query images")
	cmd.Flags().IntP("k", "k", 0, "Neighbor count (0 = config default)")
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching file events")
	_ = cmd.MarkFlagRequired("samples")
	_ = cmd.MarkFlagRequired("inbox")

	return cmd
}

func makeWatchRunner() func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		samplesDir, _ := cmd.Flags().GetString("samples")
		inboxDir, _ := cmd.Flags().GetString("inbox")
		k, _ := cmd.Flags().GetInt("k")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		report, err := importSamples(cmd, sess, samplesDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d examples across %d classes\n",
			report.Added, len(sess.classifier.Counts()))

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		if err := addWatchDirs(watcher, samplesDir); err != nil {
			return fmt.Errorf("watch samples dir: %w", err)
		}
		if err := addWatchDirs(watcher, inboxDir); err != nil {
			return fmt.Errorf("watch inbox dir: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s and %s...\n", samplesDir, inboxDir)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := make(map[string]struct{})

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
						continue
					}
				}
				if shouldIgnoreEvent(event) {
					continue
				}
				pending[event.Name] = struct{}{}
				timer.Reset(debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				paths := drainPending(pending)
				for _, path := range paths {
					handleWatchedFile(cmd, sess, samplesDir, path, sess.resolveK(k))
				}
			}
		}
	}
}

func handleWatchedFile(cmd *cobra.Command, sess *session, samplesDir, path string, k int) {
	if isUnder(path, samplesDir) {
		label := internal.LabelFor(samplesDir, path, sess.cfg.Classifier.DefaultLabel)
		if err := sess.trainer.AddImage(cmd.Context(), path, label); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "add %s: %v\n", path, err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "+ %s  %s\n", label, path)
		return
	}

	pred, err := sess.classifier.Classify(cmd.Context(), path, k)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "classify %s: %v\n", path, err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %.2f  %s\n", pred.Label, pred.Confidences[pred.Label], path)
}

func drainPending(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
		delete(pending, path)
	}
	sort.Strings(paths)
	return paths
}

func isUnder(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	if !internal.IsImage(event.Name) {
		return true
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return true
	}

	return false
}
