package insights

import (
	"fmt"
)

// Both prompts demand STRICT JSON so the responses can be validated
// against a fixed shape. The raw CSV text is embedded verbatim.

func buildVisualizationsPrompt(csvData string) string {
	return "You are an expert financial analyst. Given the following financial transaction data " +
		"in CSV format, analyze the data and suggest a diverse set of insightful visualizations " +
		"(e.g. bar charts, pie charts, line graphs) that would help a financial analyst quickly " +
		"understand key trends and patterns. Briefly explain the insight each visualization " +
		"provides. Focus on spending patterns, trends and other key information. Be concise and " +
		"descriptive, and do not include the data itself.\n\n" +
		"CSV Data:\n" + csvData + "\n\n" +
		"Output STRICT JSON only (no comments, no extra text).\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Output a single JSON object with exactly this field:\n" +
		"- \"visualizationDescriptions\": string, one paragraph describing the suggested charts\n"
}

func buildDateRangesPrompt(csvData string, count int) string {
	return fmt.Sprintf("You are a financial analysis expert. Given the following CSV data of "+
		"financial transactions, suggest %d relevant date ranges for analysis. For each range "+
		"provide a start date, an end date, and a brief reason for suggesting it, such as "+
		"\"period of highest spending\" or \"most volatile period\".\n\n"+
		"CSV Data:\n%s\n\n"+
		"Output STRICT JSON only (no comments, no extra text).\n"+
		"Do NOT wrap the response in code fences.\n"+
		"Output a single JSON object with exactly this field:\n"+
		"- \"dateRanges\": array of objects, each with string fields \"startDate\", \"endDate\" and \"reason\"\n",
		count, csvData)
}
