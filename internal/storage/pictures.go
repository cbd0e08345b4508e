package storage

import (
	"bytes"
	_ "embed"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"halflips/internal/model"
)

//go:embed default.png
var defaultPicture []byte

// ErrInvalidFilename is returned when nothing usable is left of an uploaded filename.
var ErrInvalidFilename = errors.New("invalid filename")

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	windowsDeviceNames  = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}
)

// SanitizeFilename reduces an uploaded filename to a flat ASCII name that is
// safe to join onto the upload directory. Path components are flattened,
// never followed.
func SanitizeFilename(name string) (string, error) {
	decomposed := norm.NFKD.String(name)
	ascii := make([]rune, 0, len(decomposed))
	for _, r := range decomposed {
		if r < 0x80 {
			ascii = append(ascii, r)
		}
	}

	flat := strings.NewReplacer("/", " ", "\\", " ").Replace(string(ascii))
	flat = strings.Join(strings.Fields(flat), "_")
	flat = unsafeFilenameChars.ReplaceAllString(flat, "")
	flat = strings.Trim(flat, "._")

	if flat == "" {
		return "", ErrInvalidFilename
	}
	if base := strings.SplitN(flat, ".", 2)[0]; windowsDeviceNames[strings.ToUpper(base)] {
		flat = "_" + flat
	}
	return flat, nil
}

// PictureStore saves uploaded profile pictures under a single directory.
// Files are written in place; an upload with an existing name replaces it.
type PictureStore struct {
	dir string
}

// NewPictureStore creates the directory if needed and installs the default
// profile picture.
func NewPictureStore(dir string) (*PictureStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	s := &PictureStore{dir: dir}
	if err := s.installDefault(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory pictures are written to.
func (s *PictureStore) Dir() string {
	return s.dir
}

// Save writes the uploaded file and returns the stored filename.
func (s *PictureStore) Save(fh *multipart.FileHeader) (string, error) {
	filename, err := SanitizeFilename(fh.Filename)
	if err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	if err := s.write(filename, src); err != nil {
		return "", err
	}
	return filename, nil
}

// installDefault writes the picture shown for users without an upload,
// leaving an existing file untouched.
func (s *PictureStore) installDefault() error {
	_, err := os.Stat(filepath.Join(s.dir, model.DefaultProfilePic))
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrap(err, "stat default picture")
	}
	return s.write(model.DefaultProfilePic, bytes.NewReader(defaultPicture))
}

func (s *PictureStore) write(filename string, r io.Reader) error {
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return errors.Wrapf(err, "write %s", filename)
	}
	return errors.Wrapf(dst.Close(), "close %s", filename)
}
