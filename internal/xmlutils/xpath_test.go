package xmlutils

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Id>STATEMENT1</Id>
      <Acct><Id><IBAN>DE0012345678</IBAN></Id></Acct>
      <Ntry><Amt Ccy="EUR">1.00</Amt></Ntry>
      <Ntry><Amt Ccy="EUR">2.00</Amt></Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func TestParseXMLAndExtract(t *testing.T) {
	root, err := ParseXML(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	ids, err := ExtractFromXML(root, XPathStatementID)
	require.NoError(t, err)
	assert.Equal(t, []string{"STATEMENT1"}, ids)

	entries, err := ExtractFromXML(root, XPathEntry)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	ok, err := Exists(root, XPathStatement)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(root, "//BkToCstmrStmt/Rpt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExtractFromXML_BadExpression(t *testing.T) {
	root, err := ParseXML(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	_, err = ExtractFromXML(root, "//[")
	assert.Error(t, err)
	_, err = Exists(root, "//[")
	assert.Error(t, err)
}

func TestParseXML_Malformed(t *testing.T) {
	_, err := ParseXML(strings.NewReader("<Document><Stmt></Document>"))
	assert.Error(t, err)
}

func TestNewDecoder_Latin1(t *testing.T) {
	// "Müller" in ISO-8859-1
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><Nm>M\xfcller</Nm>"
	d := NewDecoder(strings.NewReader(doc))

	var name string
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if text, ok := tok.(xml.CharData); ok {
			name += string(text)
		}
	}
	assert.Equal(t, "Müller", name)
}

func TestGetOrEmpty(t *testing.T) {
	assert.Equal(t, "b", GetOrEmpty([]string{"a", "b"}, 1))
	assert.Equal(t, "", GetOrEmpty([]string{"a"}, 5))
	assert.Equal(t, "", GetOrEmpty(nil, 0))
	assert.Equal(t, "", GetOrEmpty([]string{"a"}, -1))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Salary October", CleanText("  Salary\n\t October  "))
	assert.Equal(t, "", CleanText(" \n "))
}
