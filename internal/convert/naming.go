package convert

import (
	"path/filepath"
	"strings"
)

const convertedSuffix = "_converted"

// outputPath derives the destination path for a converted file from its
// source path and target extension, stripping a trailing "_converted" stem
// suffix first so repeated round-trips (ct -> xlsx -> ct -> xlsx ...) don't
// accumulate the suffix (mirrors main.py's get_smart_output_name: "CardInfo"
// -> "CardInfo.xlsx", "CardInfo_converted" -> "CardInfo.ct").
func outputPath(srcPath, targetExt string) string {
	dir := filepath.Dir(srcPath)
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	stem = strings.TrimSuffix(stem, convertedSuffix)
	return filepath.Join(dir, stem+targetExt)
}
