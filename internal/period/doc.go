// Package period reads the preamble of a source report and works out which
// semi-monthly output periods a new batch must be checked against.
//
// Periods are the 1st and 15th of each month and are identified as
// MON_DD_YY in uppercase (JAN_15_24). The output identifier of a batch is
// the entity name joined with the run date identifier (ACME_JAN_15_24).
package period
