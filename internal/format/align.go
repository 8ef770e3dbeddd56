package format

// Align8 rounds n up to the cell granularity.
func Align8(n int) int {
	return (n + CellAlignment - 1) &^ (CellAlignment - 1)
}

// AlignHBIN rounds n up to the hive bin granularity.
func AlignHBIN(n int) int {
	return (n + HBINAlignment - 1) &^ (HBINAlignment - 1)
}
