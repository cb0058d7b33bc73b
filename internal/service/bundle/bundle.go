package bundle

import (
	"github.com/jgivc/contentmetadata/internal/common"
	"github.com/jgivc/contentmetadata/internal/entity"
)

// Files in these DPG folders always get a resource of their own when bundling by
// DPG name.
var specialDPGFolders = map[string]struct{}{
	"31": {},
	"44": {},
	"50": {},
}

type File interface {
	FilenameWithoutExt() string
	DPGBaseName() string
	DPGFolder() string
}

// Group is one future resource. DPG marks groups built by the dpg strategy.
type Group[F File] struct {
	Files []F
	DPG   bool
}

func IsSpecialDPGFolder(folder string) bool {
	_, special := specialDPGFolders[folder]

	return special
}

// Build partitions files into groups. prebundled is only read by the prebundled
// strategy, files by all others. Inputs are never modified and empty groups are
// dropped.
func Build[F File](strategy entity.BundleStrategy, files []F, prebundled [][]F) ([]Group[F], error) {
	var groups []Group[F]

	switch strategy {
	case entity.BundleDefault:
		groups = make([]Group[F], 0, len(files))
		for _, file := range files {
			groups = append(groups, Group[F]{Files: []F{file}})
		}
	case entity.BundleFilename:
		for _, bundled := range groupBy(files, func(file F) string { return file.FilenameWithoutExt() }, nil) {
			groups = append(groups, Group[F]{Files: bundled})
		}
	case entity.BundleDPG:
		groups = buildForDPG(files)
	case entity.BundlePrebundled:
		groups = make([]Group[F], 0, len(prebundled))
		for _, bundled := range prebundled {
			groups = append(groups, Group[F]{Files: append([]F(nil), bundled...)})
		}
	default:
		return nil, common.NewInputValidationError("bundle strategy", strategy.String(), common.ErrInvalidBundle)
	}

	return compact(groups), nil
}

// buildForDPG groups by DPG base name leaving out special folder files, which are
// appended afterwards as singletons in input order.
func buildForDPG[F File](files []F) []Group[F] {
	isSpecial := func(file F) bool {
		return IsSpecialDPGFolder(file.DPGFolder())
	}

	var groups []Group[F]
	for _, bundled := range groupBy(files, func(file F) string { return file.DPGBaseName() }, isSpecial) {
		groups = append(groups, Group[F]{Files: bundled, DPG: true})
	}

	for _, file := range files {
		if isSpecial(file) {
			groups = append(groups, Group[F]{Files: []F{file}, DPG: true})
		}
	}

	return groups
}

// groupBy returns one group per distinct key in first-seen order. Keys are taken
// from every file; excluded files only stay out of the groups, so a key seen
// first on an excluded file keeps its position.
func groupBy[F File](files []F, key func(F) string, exclude func(F) bool) [][]F {
	index := make(map[string]int)

	var groups [][]F
	for _, file := range files {
		k := key(file)
		i, exists := index[k]
		if !exists {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}

		if exclude != nil && exclude(file) {
			continue
		}

		groups[i] = append(groups[i], file)
	}

	return groups
}

func compact[F File](groups []Group[F]) []Group[F] {
	out := groups[:0]
	for _, group := range groups {
		if len(group.Files) > 0 {
			out = append(out, group)
		}
	}

	return out
}
