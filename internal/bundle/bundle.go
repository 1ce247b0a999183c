// Package bundle packages a source checkout into a distributable zip archive
// with a BLAKE3 checksum sidecar.
package bundle

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/deploy"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/fsutil"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/templates"
)

// Layout of a bundle.
const (
	PrimaryArtifact = "xui11.sh.fixed.sh"
	DefaultName     = "XUI-Windows"
	TimestampFormat = "20060102-150405"
	ChecksumSuffix  = ".blake3"
	InstallerName   = "INSTALL.cmd"
	ReadmeName      = "README.txt"
)

// RequiredFiles must exist at the top of the source root.
var RequiredFiles = []string{PrimaryArtifact}

// PlatformFiles are the Windows integration files shipped under win/.
var PlatformFiles = []string{
	"win/install_xui_windows.ps1",
	"win/install_xui_windows.bat",
	"win/extract_xui_payload.py",
	"win/xui_update_check.py",
}

// AssetDirs are copied recursively when present.
var AssetDirs = []string{"assets", "sounds", "themes", "win/assets"}

// MissingFilesError lists source files a bundle cannot be built without.
type MissingFilesError struct {
	Files []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf(messages.BundleMissingFilesFmt, strings.Join(e.Files, ", "))
}

// Options configure one build.
type Options struct {
	SourceRoot string
	OutputDir  string
	Name       string
	// Now stamps the archive name and the generated docs, in UTC.
	Now time.Time
	Log logrus.FieldLogger
}

// Result describes a finished bundle.
type Result struct {
	Archive  string
	Checksum string
	// Digest is the hex BLAKE3 digest of the archive.
	Digest string
	// Files are the slash-separated paths inside the archive, sorted.
	Files []string
}

// Build validates the source, stages the bundle, and writes the archive. Nothing
// is written when a required or platform file is missing.
func Build(opts Options) (Result, error) {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	opts.Now = opts.Now.UTC()
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if strings.ContainsAny(opts.Name, `/\`) || opts.Name == "." || opts.Name == ".." {
		return Result{}, fmt.Errorf(messages.BundleInvalidNameFmt, opts.Name)
	}

	if err := checkFiles(opts.SourceRoot, RequiredFiles); err != nil {
		return Result{}, err
	}
	if err := checkFiles(opts.SourceRoot, PlatformFiles); err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf(messages.BundleCreateOutputFmt, opts.OutputDir, err)
	}
	stage := filepath.Join(opts.OutputDir, ".stage-"+opts.Name)
	if err := os.RemoveAll(stage); err != nil {
		return Result{}, fmt.Errorf(messages.BundleStageFmt, stage, err)
	}
	defer func() { _ = os.RemoveAll(stage) }()

	files, err := populateStage(opts.SourceRoot, stage)
	if err != nil {
		return Result{}, err
	}
	log.WithField("files", len(files)).Info("bundle staged")

	built := opts.Now.Format(time.RFC3339)
	docs := []struct {
		name     string
		template string
		crlf     bool
	}{
		{InstallerName, templates.BundleInstaller, true},
		{ReadmeName, templates.BundleReadme, true},
	}
	files = append(files, InstallerName, ReadmeName)
	sort.Strings(files)
	for _, doc := range docs {
		data, err := templates.Render(doc.template, struct {
			Name  string
			Built string
			Files []string
		}{opts.Name, built, files})
		if err != nil {
			return Result{}, fmt.Errorf(messages.BundleRenderFmt, doc.name, err)
		}
		if doc.crlf {
			data = []byte(strings.ReplaceAll(string(data), "\n", "\r\n"))
		}
		if err := os.WriteFile(filepath.Join(stage, doc.name), data, 0o644); err != nil {
			return Result{}, fmt.Errorf(messages.BundleStageFmt, stage, err)
		}
	}

	archive := filepath.Join(opts.OutputDir, fmt.Sprintf("%s-%s.zip", opts.Name, opts.Now.Format(TimestampFormat)))
	if err := os.Remove(archive); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Result{}, fmt.Errorf(messages.BundleArchiveFmt, archive, err)
	}
	if err := writeArchive(archive, stage, opts.Name, files, opts.Now); err != nil {
		_ = os.Remove(archive)
		return Result{}, fmt.Errorf(messages.BundleArchiveFmt, archive, err)
	}

	digest, err := digestFile(archive)
	if err != nil {
		return Result{}, fmt.Errorf(messages.BundleChecksumFmt, archive, err)
	}
	checksum := archive + ChecksumSuffix
	line := fmt.Sprintf("%s  %s\n", digest, filepath.Base(archive))
	if err := fsutil.WriteFileAtomic(checksum, []byte(line), 0o644); err != nil {
		return Result{}, fmt.Errorf(messages.BundleChecksumFmt, archive, err)
	}
	log.WithFields(logrus.Fields{"archive": archive, "blake3": digest}).Info("bundle written")
	return Result{Archive: archive, Checksum: checksum, Digest: digest, Files: files}, nil
}

func checkFiles(root string, names []string) error {
	var missing []string
	for _, name := range names {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingFilesError{Files: missing}
	}
	return nil
}

// populateStage copies the bundle contents into stage and returns their
// slash-separated relative paths.
func populateStage(root string, stage string) ([]string, error) {
	var files []string
	copyOne := func(rel string) error {
		dst := filepath.Join(stage, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := fsutil.CopyFile(filepath.Join(root, filepath.FromSlash(rel)), dst, 0); err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	}

	top := append([]string{}, RequiredFiles...)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf(messages.BundleStageFmt, stage, err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() && deploy.IsMedia(e.Name()) {
			top = append(top, e.Name())
		}
	}
	for _, rel := range append(top, PlatformFiles...) {
		if err := copyOne(rel); err != nil {
			return nil, fmt.Errorf(messages.BundleStageFmt, stage, err)
		}
	}

	for _, dir := range AssetDirs {
		src := filepath.Join(root, filepath.FromSlash(dir))
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			continue
		}
		err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			return copyOne(filepath.ToSlash(rel))
		})
		if err != nil {
			return nil, fmt.Errorf(messages.BundleStageFmt, stage, err)
		}
	}
	return files, nil
}

// writeArchive zips files from stage under a top-level folder named prefix.
func writeArchive(archive string, stage string, prefix string, files []string, modified time.Time) (err error) {
	f, err := os.Create(archive)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	zw := zip.NewWriter(f)
	for _, rel := range files {
		if err := addFile(zw, filepath.Join(stage, filepath.FromSlash(rel)), path.Join(prefix, rel), modified); err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, src string, name string, modified time.Time) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate
	header.Modified = modified
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	_, err = io.Copy(w, in)
	return err
}

func digestFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksum recomputes the archive digest and compares it with its sidecar.
func VerifyChecksum(archive string) (bool, error) {
	data, err := os.ReadFile(archive + ChecksumSuffix)
	if err != nil {
		return false, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return false, fmt.Errorf(messages.BundleChecksumFmt, archive, errors.New(messages.BundleEmptySidecar))
	}
	digest, err := digestFile(archive)
	if err != nil {
		return false, err
	}
	return digest == fields[0], nil
}
