package famafrench_client

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"alphadash/internal/domain"
	"alphadash/internal/util"

	"github.com/gocarina/gocsv"
)

// Ken French's monthly research factors. The raw file is a zipped CSV
// with a free-text preamble, a YYYYMM-indexed monthly section, and an
// annual section after it. Values are percent per month.
const monthlyFactorsURL = "https://mba.tuck.dartmouth.edu/pages/faculty/ken.french/ftp/F-F_Research_Data_Factors_CSV.zip"

// GetMonthlyFactors downloads and parses the monthly Fama-French three
// factor file. The returned rows are decimal fractions (percent divided
// by 100) stamped on month-end dates - this is the single place raw
// percent units are converted, so everything downstream can assume
// decimal.
func GetMonthlyFactors() ([]domain.FactorRow, error) {
	response, err := http.Get(monthlyFactorsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download fama-french factors: %w", err)
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}
	if response.StatusCode != 200 {
		return nil, fmt.Errorf("fama-french download failed with status code %d", response.StatusCode)
	}

	csvBytes, err := unzipSingleFile(responseBytes)
	if err != nil {
		return nil, err
	}

	return parseMonthlyFactorCSV(string(csvBytes))
}

func unzipSingleFile(zipBytes []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to open factor zip: %w", err)
	}
	if len(reader.File) == 0 {
		return nil, fmt.Errorf("factor zip contains no files")
	}

	f, err := reader.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open zipped csv: %w", err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

type factorRecord struct {
	Month      string  `csv:"month"`
	MktMinusRF float64 `csv:"mktrf"`
	SMB        float64 `csv:"smb"`
	HML        float64 `csv:"hml"`
	RF         float64 `csv:"rf"`
}

// parseMonthlyFactorCSV keeps only the YYYYMM-indexed monthly rows,
// discarding the preamble and the annual section that follows them.
func parseMonthlyFactorCSV(raw string) ([]domain.FactorRow, error) {
	lines := []string{"month,mktrf,smb,hml,rf"}
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), ",", 2)
		if len(fields) != 2 {
			continue
		}
		month := strings.TrimSpace(fields[0])
		if len(month) != 6 {
			continue
		}
		if _, err := strconv.Atoi(month); err != nil {
			continue
		}
		lines = append(lines, month+","+fields[1])
	}

	records := []factorRecord{}
	if err := gocsv.UnmarshalString(strings.Join(lines, "\n"), &records); err != nil {
		return nil, fmt.Errorf("failed to parse factor csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("factor csv contains no monthly rows")
	}

	out := make([]domain.FactorRow, len(records))
	for i, r := range records {
		date, err := time.Parse("200601", r.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q in factor csv: %w", r.Month, err)
		}
		out[i] = domain.FactorRow{
			Date:       util.EndOfMonth(date),
			MktMinusRF: r.MktMinusRF / 100,
			SMB:        r.SMB / 100,
			HML:        r.HML / 100,
			RF:         r.RF / 100,
		}
	}

	return out, nil
}
