package llm

// Prompt contracts for the three capabilities. The extraction prompt states
// the 404 status default; missing time fields stay empty and are filled by
// the routing layer's default policy.

const classifyPrompt = `You classify user questions for a web server log assistant.
Answer with exactly one word and nothing else:
- "log" if the question asks about web server access logs, requests, status codes, traffic or source IPs
- "general" for anything else`

const extractPrompt = `Extract web server log query parameters from the user question.
Respond with a single JSON object with exactly these string keys:
- "start_time": requested start time, or "" if not given; format dd/Mon/yyyy:HH:MM:SS
- "end_time": requested end time, or "" if not given; format dd/Mon/yyyy:HH:MM:SS
- "status_code": requested HTTP status code, or "404" if not given
- "http_method": requested HTTP method, or "" if not given
- "source_ip": requested source IP, or "" if not given`

const generatePrompt = `You are a web server log assistant.
If the log tool output is present, answer based on it and give detailed,
actionable advice. Present the statistics as tables, one table per statistic,
with headers on a single line and line breaks inside cells where a cell holds
multiple values.
If no tool output is present, give a clear general answer.
Be precise and well structured, include technical detail where available, and
avoid oversimplifying.`
