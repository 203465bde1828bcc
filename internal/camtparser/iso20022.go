package camtparser

import (
	"encoding/xml"
	"strings"
)

// Element types of the camt.053 subset this codec writes. Reading only uses xmlBalance and
// xmlAmount; entries are read by the token cursor in reader.go.

type xmlDocument struct {
	XMLName       xml.Name         `xml:"Document"`
	Xmlns         string           `xml:"xmlns,attr,omitempty"`
	BkToCstmrStmt xmlBkToCstmrStmt `xml:"BkToCstmrStmt"`
}

type xmlBkToCstmrStmt struct {
	Stmt xmlStatement `xml:"Stmt"`
}

type xmlStatement struct {
	ID   string       `xml:"Id"`
	Acct xmlAccount   `xml:"Acct"`
	Bal  []xmlBalance `xml:"Bal"`
	Ntry []xmlEntry   `xml:"Ntry"`
}

type xmlAccount struct {
	ID struct {
		IBAN string `xml:"IBAN"`
	} `xml:"Id"`
}

type xmlBalance struct {
	Tp struct {
		CdOrPrtry struct {
			Cd string `xml:"Cd"`
		} `xml:"CdOrPrtry"`
	} `xml:"Tp"`
	Amt       xmlAmount `xml:"Amt"`
	CdtDbtInd string    `xml:"CdtDbtInd,omitempty"`
	Dt        xmlDate   `xml:"Dt"`
}

type xmlAmount struct {
	Value string `xml:",chardata"`
	Ccy   string `xml:"Ccy,attr"`
}

// UnmarshalXML matches the currency attribute case-insensitively (Ccy, ccy, CCY)
func (a *xmlAmount) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	a.Ccy = currencyAttr(start.Attr)
	var value string
	if err := d.DecodeElement(&value, &start); err != nil {
		return err
	}
	a.Value = strings.TrimSpace(value)
	return nil
}

type xmlDate struct {
	Dt   string `xml:"Dt,omitempty"`
	DtTm string `xml:"DtTm,omitempty"`
}

func (d xmlDate) value() string {
	if d.Dt != "" {
		return strings.TrimSpace(d.Dt)
	}
	return strings.TrimSpace(d.DtTm)
}

type xmlEntry struct {
	NtryRef      string    `xml:"NtryRef,omitempty"`
	Amt          xmlAmount `xml:"Amt"`
	CdtDbtInd    string    `xml:"CdtDbtInd"`
	ValDt        xmlDate   `xml:"ValDt"`
	BookgDt      xmlDate   `xml:"BookgDt"`
	AddtlNtryInf string    `xml:"AddtlNtryInf"`
}

func currencyAttr(attrs []xml.Attr) string {
	for _, attr := range attrs {
		if strings.EqualFold(attr.Name.Local, "Ccy") {
			return strings.TrimSpace(attr.Value)
		}
	}
	return ""
}
