// Package exporter writes processed report tables.
//
// WorkbookWriter produces an .xlsx workbook holding one styled Excel table.
// CSVWriter produces comma separated text with a UTF-8 BOM so Excel detects
// the encoding.
//
// Example usage:
//
//	w, err := exporter.New(domain.ReportFormatExcel, exporter.DefaultWorkbookOptions())
//	if err != nil {
//	    return err
//	}
//	err = w.Write(out, table)
package exporter
