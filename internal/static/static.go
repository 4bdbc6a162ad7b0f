// Package static serves files from a directory ahead of the registered routes.
package static

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	IndexFile    = "index.html"
	cacheControl = "public, max-age=0"
)

// Serve returns middleware that answers GET and HEAD requests whose path names
// a file under root. Directories are served through their index.html. Anything
// else, including dot-files and other methods, is passed to the next handler.
func Serve(root string) gin.HandlerFunc {
	dir := http.Dir(root)

	return func(c *gin.Context) {
		r := c.Request
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			c.Next()
			return
		}

		name := path.Clean("/" + r.URL.Path)
		if hasDotSegment(name) {
			c.Next()
			return
		}

		f, info, ok := open(dir, name)
		if !ok {
			c.Next()
			return
		}

		if info.IsDir() {
			f.Close()
			f, info, ok = open(dir, path.Join(name, IndexFile))
			if !ok || info.IsDir() {
				if ok {
					f.Close()
				}
				c.Next()
				return
			}
			if name != "/" && !strings.HasSuffix(r.URL.Path, "/") {
				f.Close()
				localRedirect(c, path.Base(name)+"/")
				return
			}
		}
		defer f.Close()

		c.Header("Cache-Control", cacheControl)
		http.ServeContent(c.Writer, r, info.Name(), info.ModTime(), f)
		c.Abort()
	}
}

// localRedirect answers with a relative Location so the target stays on this
// host whatever the raw request path looked like.
func localRedirect(c *gin.Context, target string) {
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}
	c.Header("Location", target)
	c.AbortWithStatus(http.StatusMovedPermanently)
}

func open(dir http.Dir, name string) (http.File, fs.FileInfo, bool) {
	f, err := dir.Open(name)
	if err != nil {
		return nil, nil, false
	}
	info, err := f.Stat()
	if err != nil || (!info.IsDir() && !info.Mode().IsRegular()) {
		f.Close()
		return nil, nil, false
	}
	return f, info, true
}

func hasDotSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
