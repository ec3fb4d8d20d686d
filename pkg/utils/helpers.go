package utils

import "database/sql"

const timeLayout = "2006-01-02 15:04:05"

func NullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func NullTimeToEmptyString(nt sql.NullTime) string {
	if nt.Valid {
		return nt.Time.Local().Format(timeLayout)
	}
	return ""
}

func NullFloat64ToFloat64(nf sql.NullFloat64) float64 {
	if nf.Valid {
		return nf.Float64
	}
	return 0
}
