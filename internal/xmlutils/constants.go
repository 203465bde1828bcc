// Package xmlutils provides XML-related utility functions used throughout the application.
package xmlutils

// XPath expressions used to recognize camt.053 documents.
// xmlpath matches local names, so they apply to namespaced documents as well.
const (
	XPathStatement   = "//BkToCstmrStmt/Stmt"
	XPathStatementID = "//BkToCstmrStmt/Stmt/Id"
	XPathEntry       = "//BkToCstmrStmt/Stmt/Ntry"
)
