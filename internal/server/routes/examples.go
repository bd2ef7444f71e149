package routes

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed examples/*.json
var examplesFS embed.FS

// exampleNames lists the embedded examples without their extension.
func exampleNames() ([]string, error) {
	entries, err := fs.ReadDir(examplesFS, "examples")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func GetExamplesHandler(c echo.Context) error {
	names, err := exampleNames()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to list examples"})
	}
	return c.JSON(http.StatusOK, names)
}

func GetExampleHandler(c echo.Context) error {
	name := strings.TrimSuffix(c.Param("name"), ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid example name"})
	}

	data, err := examplesFS.ReadFile(path.Join("examples", name+".json"))
	if err != nil {
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Example not found"})
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}
