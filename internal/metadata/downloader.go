package metadata

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
)

// DefinitionAddress is the NuGet service index.
const DefinitionAddress string = "https://api.nuget.org/v3/index.json"
const nugetName string = "microsoft.windows.sdk.win32metadata"

// ErrNoMetadata is returned when the newest package carries no .winmd file.
var ErrNoMetadata = errors.New("package contains no .winmd file")

// DownloadMetadata fetches the newest Win32 metadata package listed by the
// NuGet index at definitionAddress and writes its .winmd file to
// metadataFileName. It returns the version it downloaded.
func DownloadMetadata(ctx context.Context, definitionAddress string, metadataFileName string) (string, error) {
	baseAddress, err := getBaseAddress(ctx, definitionAddress)
	if err != nil {
		return "", err
	}
	versionsResponse, err := queryGet(ctx, fmt.Sprintf("%s%s/index.json", baseAddress, nugetName))
	if err != nil {
		return "", err
	}
	versions, err := parse[map[string][]string](versionsResponse)
	if err != nil {
		return "", fmt.Errorf("parsing version list: %w", err)
	}
	latest, err := latestVersion(versions["versions"])
	if err != nil {
		return "", err
	}

	nugetBytes, err := queryGet(ctx, fmt.Sprintf("%s%s/%s/%s.%s.nupkg", baseAddress, nugetName, latest, nugetName, latest))
	if err != nil {
		return "", err
	}
	metadataBytes, err := extractMetadata(nugetBytes)
	if err != nil {
		return "", fmt.Errorf("package %s: %w", latest, err)
	}
	if err := os.WriteFile(metadataFileName, metadataBytes, 0644); err != nil {
		return "", err
	}
	return latest, nil
}

// latestVersion picks the highest of the listed versions.
func latestVersion(versionStrings []string) (string, error) {
	if len(versionStrings) == 0 {
		return "", errors.New("no versions published")
	}
	orderedVersions := make([]*version.Version, len(versionStrings))
	for i, versionString := range versionStrings {
		parsed, err := version.NewVersion(versionString)
		if err != nil {
			return "", fmt.Errorf("error parsing version %s: %w", versionString, err)
		}
		orderedVersions[i] = parsed
	}

	sort.Sort(version.Collection(orderedVersions))
	return orderedVersions[len(orderedVersions)-1].Original(), nil
}

func extractMetadata(nugetBytes []byte) ([]byte, error) {
	bytesReader := bytes.NewReader(nugetBytes)
	nuget, err := zip.NewReader(bytesReader, int64(bytesReader.Len()))
	if err != nil {
		return nil, err
	}
	for _, file := range nuget.File {
		if filepath.Ext(file.Name) != ".winmd" {
			continue
		}
		reader, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return io.ReadAll(reader)
	}
	return nil, ErrNoMetadata
}

func getBaseAddress(ctx context.Context, definitionAddress string) (string, error) {
	response, err := queryGet(ctx, definitionAddress)
	if err != nil {
		return "", err
	}
	index, err := parse[nugetIndex](response)
	if err != nil {
		return "", fmt.Errorf("parsing service index: %w", err)
	}

	for _, resource := range index.Resources {
		if strings.Contains(resource.Type, "PackageBaseAddress") {
			return resource.Id, nil
		}
	}

	return "", errors.New("service index lists no package base address")
}

func parse[T interface{}](source []byte) (T, error) {
	var parsedBody T
	err := json.Unmarshal(source, &parsedBody)
	return parsedBody, err
}

func queryGet(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, response.Status)
	}

	return io.ReadAll(response.Body)
}

type nugetIndex struct {
	Resources []nugetResource `json:"resources"`
}

type nugetResource struct {
	Id   string `json:"@id"`
	Type string `json:"@type"`
}
