// Package export renders per-epoch settlement statements for audit and
// verifies the stored entitlement set against its anchored commitment.
// Holder rows always appear in canonical key order, so two exports of the
// same epoch are byte-comparable.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/sunyield-coop/libsunyield-go/entitlement"
	"github.com/sunyield-coop/libsunyield-go/epoch"
	"github.com/sunyield-coop/libsunyield-go/ledger"
)

// Statement bundles everything one epoch's export needs.
type Statement struct {
	Epoch        *epoch.Epoch
	Entitlements entitlement.Plan
	Claims       entitlement.Plan
}

// BuildStatement collects an epoch's record, entitlements, and claims from
// the engine.
func BuildStatement(e *epoch.Engine, epochID uint64) (*Statement, error) {
	ep, err := e.GetEpoch(epochID)
	if err != nil {
		return nil, err
	}
	ents, err := e.Entitlements(epochID)
	if err != nil {
		return nil, err
	}
	claims, err := e.Claims(epochID)
	if err != nil {
		return nil, err
	}
	return &Statement{Epoch: ep, Entitlements: ents, Claims: claims}, nil
}

// VerifyEntitlements recomputes the canonical digest of the stored
// entitlement set and compares it with the anchored commitment.
func VerifyEntitlements(e *epoch.Engine, epochID uint64) error {
	ep, err := e.GetEpoch(epochID)
	if err != nil {
		return err
	}
	if ep.EntitlementsCommitment.IsZero() {
		return fmt.Errorf("%w: epoch %d", ErrNoCommitment, epochID)
	}
	ents, err := e.Entitlements(epochID)
	if err != nil {
		return err
	}
	if !ents.Digest().Equal(ep.EntitlementsCommitment) {
		return fmt.Errorf("%w: epoch %d", ErrCommitmentMismatch, epochID)
	}
	return nil
}

// claimedAmounts indexes a claims plan by holder.
func claimedAmounts(claims entitlement.Plan) map[ledger.HolderID]uint64 {
	out := make(map[ledger.HolderID]uint64, len(claims))
	for _, c := range claims {
		out[c.Holder] = c.Amount
	}
	return out
}

func formatPeriod(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02")
}

// BuildStatementXLSX renders an XLSX settlement statement: a summary sheet
// and a holders sheet with entitlement, claimed, and unclaimed columns.
func BuildStatementXLSX(st *Statement) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	holdersSheet := "holders"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(holdersSheet)

	ep := st.Epoch
	_ = f.SetCellValue(summarySheet, "A1", "Epoch Settlement Statement")
	_ = f.SetCellValue(summarySheet, "A3", "Epoch")
	_ = f.SetCellValue(summarySheet, "B3", ep.ID)
	_ = f.SetCellValue(summarySheet, "A4", "Status")
	_ = f.SetCellValue(summarySheet, "B4", ep.Status.String())
	_ = f.SetCellValue(summarySheet, "A5", "Period Start")
	_ = f.SetCellValue(summarySheet, "B5", formatPeriod(ep.PeriodStart))
	_ = f.SetCellValue(summarySheet, "A6", "Period End")
	_ = f.SetCellValue(summarySheet, "B6", formatPeriod(ep.PeriodEnd))
	_ = f.SetCellValue(summarySheet, "A7", "Snapshot")
	_ = f.SetCellValue(summarySheet, "B7", uint64(ep.SnapshotID))
	_ = f.SetCellValue(summarySheet, "A8", "Net Deposited")
	_ = f.SetCellValue(summarySheet, "B8", ep.NetDeposited)
	_ = f.SetCellValue(summarySheet, "A9", "Entitlements Set")
	_ = f.SetCellValue(summarySheet, "B9", ep.SumSet)
	_ = f.SetCellValue(summarySheet, "A10", "Claimed")
	_ = f.SetCellValue(summarySheet, "B10", ep.SumClaimed)
	_ = f.SetCellValue(summarySheet, "A11", "Accrual Commitment")
	_ = f.SetCellValue(summarySheet, "B11", ep.AccrualCommitment.Hex())
	_ = f.SetCellValue(summarySheet, "A12", "Entitlements Commitment")
	_ = f.SetCellValue(summarySheet, "B12", ep.EntitlementsCommitment.Hex())

	claimed := claimedAmounts(st.Claims)
	_ = f.SetCellValue(holdersSheet, "A1", "Holder")
	_ = f.SetCellValue(holdersSheet, "B1", "Entitlement")
	_ = f.SetCellValue(holdersSheet, "C1", "Claimed")
	_ = f.SetCellValue(holdersSheet, "D1", "Unclaimed")
	for i, entry := range st.Entitlements {
		row := i + 2
		_ = f.SetCellValue(holdersSheet, fmt.Sprintf("A%d", row), entry.Holder.Hex())
		_ = f.SetCellValue(holdersSheet, fmt.Sprintf("B%d", row), entry.Amount)
		_ = f.SetCellValue(holdersSheet, fmt.Sprintf("C%d", row), claimed[entry.Holder])
		_ = f.SetCellValue(holdersSheet, fmt.Sprintf("D%d", row), entry.Amount-claimed[entry.Holder])
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStatementPDF renders a minimal PDF settlement statement.
func BuildStatementPDF(st *Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	ep := st.Epoch
	pdf.Cell(0, 8, "Epoch Settlement Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Epoch: %d (%s)", ep.ID, ep.Status))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", formatPeriod(ep.PeriodStart), formatPeriod(ep.PeriodEnd)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Snapshot: %d", ep.SnapshotID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Net Deposited: %d", ep.NetDeposited))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Entitlements Set: %d  Claimed: %d", ep.SumSet, ep.SumClaimed))
	pdf.Ln(5)
	if !ep.AccrualCommitment.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Accrual Commitment: %s", ep.AccrualCommitment.Hex()))
		pdf.Ln(5)
	}
	if !ep.EntitlementsCommitment.IsZero() {
		pdf.Cell(0, 6, fmt.Sprintf("Entitlements Commitment: %s", ep.EntitlementsCommitment.Hex()))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	claimed := claimedAmounts(st.Claims)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(90, 6, "Holder", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Entitlement", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Claimed", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Courier", "", 7)
	for _, entry := range st.Entitlements {
		pdf.CellFormat(90, 6, entry.Holder.Hex(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d", entry.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%d", claimed[entry.Holder]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
